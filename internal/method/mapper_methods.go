package method

// mapperContract indexes chapters by name and tracks subscriptions.
func mapperContract() Contract {
	return Contract{
		ID:          KindMapper,
		Name:        "Chapter Mapper",
		Description: "Chapter name search and hearer subscription index.",
		Methods: []Definition{
			{
				Signature:  "queryPartialName(string)",
				Inputs:     []abiParam{Named("query", "string")},
				Outputs:    []abiParam{Named("addresses", "address[]"), Named("names", "string[]")},
				Mutability: View,
			},
			{
				Signature:  "getHearerChapters(address)",
				Inputs:     []abiParam{Named("hearer", "address")},
				Outputs:    Params("address[]"),
				Mutability: View,
			},
			{
				Signature:  "isHearerSubscribed(address,address)",
				Inputs:     []abiParam{Named("hearer", "address"), Named("chapter", "address")},
				Outputs:    Params("bool"),
				Mutability: View,
			},
		},
	}
}
