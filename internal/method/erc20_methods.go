package method

// erc20Contract is the subset of EIP-20 used against chapter fee tokens and LUX.
//
//	balanceOf(address)          → 0x70a08231
//	allowance(address,address)  → 0xdd62ed3e
//	approve(address,uint256)    → 0x095ea7b3
func erc20Contract() Contract {
	return Contract{
		ID:          KindERC20,
		Name:        "ERC-20 Token",
		Description: "Fee tokens accepted by chapters, including LUX.",
		Methods: []Definition{
			{Signature: "name()", Outputs: Params("string"), Mutability: View},
			{Signature: "symbol()", Outputs: Params("string"), Mutability: View},
			{Signature: "decimals()", Outputs: Params("uint8"), Mutability: View},
			{Signature: "totalSupply()", Outputs: Params("uint256"), Mutability: View},
			{
				Signature:  "balanceOf(address)",
				Inputs:     []abiParam{Named("account", "address")},
				Outputs:    Params("uint256"),
				Mutability: View,
			},
			{
				Signature:  "allowance(address,address)",
				Inputs:     []abiParam{Named("owner", "address"), Named("spender", "address")},
				Outputs:    Params("uint256"),
				Mutability: View,
			},
			{
				Signature:  "approve(address,uint256)",
				Inputs:     []abiParam{Named("spender", "address"), Named("amount", "uint256")},
				Outputs:    Params("bool"),
				Mutability: NonPayable,
			},
			{
				Signature:  "transfer(address,uint256)",
				Inputs:     []abiParam{Named("to", "address"), Named("amount", "uint256")},
				Outputs:    Params("bool"),
				Mutability: NonPayable,
			},
		},
	}
}
