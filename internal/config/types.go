package config

import "github.com/Mohsinsiddi/lumen/internal/network"

// Config holds all lumen configuration.
type Config struct {
	Network       string              `json:"network"` // target chain slug or id
	DefaultWallet string              `json:"default_wallet"`
	RPCAlgorithm  string              `json:"rpc_algorithm"` // "fastest" | "round-robin" | "failover"
	CallTimeout   int                 `json:"call_timeout"`  // seconds
	WatchInterval int                 `json:"watch_interval"` // seconds
	Contracts     Contracts           `json:"contracts"`
	CustomRPCs    map[string][]string `json:"custom_rpcs"` // by chain slug, tried before the descriptor's rpcUrls

	// Wallet holds the CLI wallet's own chain state.
	Wallet WalletState `json:"wallet"`

	// internal: config dir path used for Save()
	configDir string
}

// Contracts are the addresses of the application's contracts.
type Contracts struct {
	Factory       string `json:"factory"`
	Lux           string `json:"lux"`
	ChapterMapper string `json:"chapter_mapper"`
	LightSource   string `json:"light_source"`
}

// WalletState is what the CLI wallet remembers between runs: the chains
// added to it with wallet_addEthereumChain and the chain it is on.
type WalletState struct {
	ChainID uint64                    `json:"chain_id"`
	Chains  []network.ChainDescriptor `json:"chains"`
}

// Wallet represents a stored wallet entry.
type Wallet struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Type      string `json:"type"`              // "watch-only" | "signing"
	KeyRef    string `json:"key_ref,omitempty"` // keychain reference for signing wallets
	IsDefault bool   `json:"is_default"`
	CreatedAt string `json:"created_at"`
}

// WalletsFile is the structure of wallets.json.
type WalletsFile struct {
	Wallets []Wallet `json:"wallets"`
}
