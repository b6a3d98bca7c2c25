package method

// chapterContract is a single chapter: a subscription channel whose elect
// posts lumens (optionally encrypted per billing cycle) and bills hearers a
// fee each cycle.
func chapterContract() Contract {
	return Contract{
		ID:          KindChapter,
		Name:        "Chapter",
		Description: "Subscription channel: hearers, lumens, cycle billing.",
		Methods: []Definition{
			// ── Read ─────────────────────────────────────────────────────
			{Signature: "chapterName()", Outputs: Params("string"), Mutability: View},
			{Signature: "chapterImage()", Outputs: Params("string"), Mutability: View},
			{Signature: "elect()", Outputs: Params("address"), Mutability: View},
			{Signature: "chapterToken()", Outputs: Params("address"), Mutability: View},
			{Signature: "chapterFee()", Outputs: Params("uint256"), Mutability: View},
			{
				Signature: "nextFeeInSeconds()",
				Outputs: []abiParam{
					Named("remaining", "uint256"),
					Named("interval", "uint256"),
					Named("lastBilled", "uint256"),
				},
				Mutability: View,
			},
			{Signature: "getActiveHearersCount()", Outputs: Params("uint256"), Mutability: View},
			{Signature: "lumenHeight()", Outputs: Params("uint256"), Mutability: View},
			{
				Signature: "getLumen(uint256)",
				Inputs:    []abiParam{Named("index", "uint256")},
				Outputs: []abiParam{
					Named("dataEntry", "string"),
					Named("cycle", "uint256"),
					Named("timestamp", "uint256"),
					Named("cellIndex", "uint256"),
				},
				Mutability: View,
			},
			{
				Signature:  "historicalKeys(address,uint256)",
				Inputs:     []abiParam{Named("hearer", "address"), Named("cycle", "uint256")},
				Outputs:    Params("string"),
				Mutability: View,
			},
			{
				Signature: "isHearer(address)",
				Inputs:    []abiParam{Named("hearer", "address")},
				Outputs: []abiParam{
					Named("hearer", "address"),
					Named("ownKey", "string"),
					Named("cycle", "uint256"),
					Named("active", "bool"),
				},
				Mutability: View,
			},
			{
				Signature:  "getCellHearers(uint256)",
				Inputs:     []abiParam{Named("cellIndex", "uint256")},
				Outputs:    Params("address[]"),
				Mutability: View,
			},
			{Signature: "getCellHeight()", Outputs: Params("uint256"), Mutability: View},
			{Signature: "getLaggards()", Outputs: Params("address[]"), Mutability: View},
			{
				Signature:  "cycleKey(uint256)",
				Inputs:     []abiParam{Named("cycle", "uint256")},
				Outputs:    Params("string"),
				Mutability: View,
			},
			{Signature: "chapterCycle()", Outputs: Params("uint256"), Mutability: View},
			{Signature: "pendingCycle()", Outputs: Params("uint256"), Mutability: View},

			// ── Write ────────────────────────────────────────────────────
			{Signature: "hear()", Mutability: NonPayable},
			{Signature: "silence()", Mutability: NonPayable},
			{
				Signature:  "luminate(string)",
				Inputs:     []abiParam{Named("dataEntry", "string")},
				Mutability: NonPayable,
			},
			{
				Signature:  "addChapterName(string)",
				Inputs:     []abiParam{Named("name", "string")},
				Mutability: NonPayable,
			},
			{
				Signature:  "addChapterImage(string)",
				Inputs:     []abiParam{Named("image", "string")},
				Mutability: NonPayable,
			},
			{
				Signature: "nextCycleBill(string,uint256,string)",
				Inputs: []abiParam{
					Named("key", "string"),
					Named("cellIndex", "uint256"),
					Named("ownKeys", "string"),
				},
				Mutability: NonPayable,
			},
			{
				Signature: "billAndSet(address,string,string)",
				Inputs: []abiParam{
					Named("hearer", "address"),
					Named("cycleIndexes", "string"),
					Named("ownKeys", "string"),
				},
				Mutability: NonPayable,
			},
			{
				Signature:  "reElect(address)",
				Inputs:     []abiParam{Named("newElect", "address")},
				Mutability: NonPayable,
			},
		},
	}
}
