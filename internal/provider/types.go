package provider

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CallRequest is the first parameter of eth_call.
type CallRequest struct {
	From *common.Address `json:"from,omitempty"`
	To   common.Address  `json:"to"`
	Data hexutil.Bytes   `json:"data"`
}

// TxRequest is the parameter of eth_sendTransaction. The wallet fills in
// nonce, gas and fees.
type TxRequest struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Data  hexutil.Bytes  `json:"data"`
	Value *hexutil.Big   `json:"value"`
}

// SwitchChainRequest is the parameter of wallet_switchEthereumChain.
type SwitchChainRequest struct {
	ChainID hexutil.Uint64 `json:"chainId"`
}

// BlockLatest is the block tag for reads against the latest state.
const BlockLatest = "latest"
