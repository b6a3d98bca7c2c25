package method

// lightSourceContract is the LUX faucet and reward pool.
func lightSourceContract() Contract {
	return Contract{
		ID:          KindLightSource,
		Name:        "Light Source",
		Description: "LUX faucet, swap counter and reward pool.",
		Methods: []Definition{
			{
				Signature:  "claim(address)",
				Inputs:     []abiParam{Named("token", "address")},
				Mutability: NonPayable,
			},
			{Signature: "claimReward()", Mutability: NonPayable},
			{Signature: "mintRewards()", Mutability: NonPayable},
			{
				Signature:  "rewardEligibility(address)",
				Inputs:     []abiParam{Named("account", "address")},
				Outputs:    Params("uint256"),
				Mutability: View,
			},
			{Signature: "swapCount()", Outputs: Params("uint256"), Mutability: View},
			{Signature: "swapThreshold()", Outputs: Params("uint256"), Mutability: View},
		},
	}
}
