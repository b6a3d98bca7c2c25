// Package config loads and saves the lumen configuration directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/Mohsinsiddi/lumen/internal/network"
	"github.com/ethereum/go-ethereum/common"
)

const (
	defaultAlgorithm = "fastest"
	defaultInterval  = 15
	defaultChainID   = 1 // a fresh wallet sits on mainnet and knows no chains

	// EnvDir overrides the default config directory.
	EnvDir = "LUMEN_CONFIG_DIR"

	configFile  = "config.json"
	walletsFile = "wallets.json"
)

// Load reads config from dir (or creates defaults). dir defaults to
// $LUMEN_CONFIG_DIR, then ~/.lumen.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = os.Getenv(EnvDir)
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".lumen")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string][]string)
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	return saveJSON(filepath.Join(c.configDir, configFile), c)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// Timeout is the per-request provider timeout.
func (c *Config) Timeout() time.Duration {
	if c.CallTimeout <= 0 {
		return DefaultCallTimeout
	}
	return time.Duration(c.CallTimeout) * time.Second
}

// Interval is the watch polling interval.
func (c *Config) Interval() time.Duration {
	if c.WatchInterval <= 0 {
		return defaultInterval * time.Second
	}
	return time.Duration(c.WatchInterval) * time.Second
}

// Chains returns the built-in chains.
func (c *Config) Chains() *network.Registry {
	return network.Builtin()
}

// TargetChain resolves the configured network.
func (c *Config) TargetChain() (network.ChainDescriptor, error) {
	return c.Chains().Get(c.Network)
}

// Address parses one of the configured contract addresses by name:
// factory, lux, chapter-mapper or light-source.
func (c *Config) Address(name string) (common.Address, error) {
	var s string
	switch name {
	case "factory":
		s = c.Contracts.Factory
	case "lux":
		s = c.Contracts.Lux
	case "chapter-mapper":
		s = c.Contracts.ChapterMapper
	case "light-source":
		s = c.Contracts.LightSource
	default:
		return common.Address{}, fmt.Errorf("unknown contract %q", name)
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("contract %s: invalid address %q", name, s)
	}
	return common.HexToAddress(s), nil
}

// AddRPC adds a custom RPC URL for a chain.
func (c *Config) AddRPC(chain, url string) error {
	if c.CustomRPCs == nil {
		c.CustomRPCs = make(map[string][]string)
	}
	if slices.Contains(c.CustomRPCs[chain], url) {
		return fmt.Errorf("RPC %s already exists for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = append(c.CustomRPCs[chain], url)
	return nil
}

// RemoveRPC removes a custom RPC URL for a chain.
func (c *Config) RemoveRPC(chain, url string) error {
	rpcs := c.CustomRPCs[chain]
	idx := slices.Index(rpcs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = slices.Delete(rpcs, idx, idx+1)
	return nil
}

// RPCs returns the URLs to try for a chain: custom ones first, then the
// descriptor's.
func (c *Config) RPCs(d network.ChainDescriptor) []string {
	out := slices.Clone(c.CustomRPCs[d.Slug()])
	for _, u := range d.RPCURLs {
		if !slices.Contains(out, u) {
			out = append(out, u)
		}
	}
	return out
}

// LoadWallets reads wallets.json.
func (c *Config) LoadWallets() (*WalletsFile, error) {
	return loadJSON[WalletsFile](filepath.Join(c.configDir, walletsFile))
}

// SaveWallets writes wallets.json.
func (c *Config) SaveWallets(wf *WalletsFile) error {
	return saveJSON(filepath.Join(c.configDir, walletsFile), wf)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		Network:       network.SonicBlazeTestnet().Slug(),
		RPCAlgorithm:  defaultAlgorithm,
		CallTimeout:   int(DefaultCallTimeout / time.Second),
		WatchInterval: defaultInterval,
		Contracts: Contracts{
			Factory:       FactoryAddress,
			Lux:           LuxAddress,
			ChapterMapper: ChapterMapperAddress,
			LightSource:   LightSourceAddress,
		},
		CustomRPCs: make(map[string][]string),
		Wallet:     WalletState{ChainID: defaultChainID},
		configDir:  dir,
	}
}

func loadJSON[T any](path string) (*T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &zero, nil
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
