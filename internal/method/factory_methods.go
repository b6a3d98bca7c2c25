package method

func factoryContract() Contract {
	return Contract{
		ID:          KindFactory,
		Name:        "Chapter Factory",
		Description: "Deploys new chapters.",
		Methods: []Definition{
			{
				Signature: "deployChapter(address,uint256,uint256,address)",
				Inputs: []abiParam{
					Named("elect", "address"),
					Named("feeInterval", "uint256"),
					Named("fee", "uint256"),
					Named("token", "address"),
				},
				Outputs:    Params("address"),
				Mutability: NonPayable,
			},
		},
	}
}
