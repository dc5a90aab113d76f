package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	defaultNetwork   = "ethereum"
	defaultMode      = "mainnet"
	defaultAlgorithm = "fastest"
	defaultRefresh   = 30

	configFile    = "config.json"
	walletsFile   = "wallets.json"
	contractsFile = "contracts.json"
	envFile       = ".env"
)

var validate = validator.New()

// ResolveDir picks the config directory: dir when set, then
// TXFORGE_CONFIG_DIR, then ~/.txforge.
func ResolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home dir: %w", err)
	}
	return filepath.Join(home, ".txforge"), nil
}

// LoadEnv loads .env from the working directory and from the config
// directory. Variables already set in the environment win.
func LoadEnv(dir string) error {
	for _, path := range []string{envFile, filepath.Join(dir, envFile)} {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}

// Load reads config from dir (or creates defaults). See ResolveDir for how
// an empty dir is resolved.
func Load(dir string) (*Config, error) {
	dir, err := ResolveDir(dir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
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
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// Save validates and writes the config to disk.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// AddRPC adds a custom RPC URL for a chain.
func (c *Config) AddRPC(chain, url string) error {
	if err := validate.Var(url, "url"); err != nil {
		return fmt.Errorf("invalid RPC URL %q", url)
	}
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
	if len(c.CustomRPCs[chain]) == 0 {
		delete(c.CustomRPCs, chain)
	}
	return nil
}

// GetRPCs returns custom RPCs for a chain.
func (c *Config) GetRPCs(chain string) []string {
	return c.CustomRPCs[chain]
}

// GasRefresh is the gas watcher interval.
func (c *Config) GasRefresh() time.Duration {
	if c.GasRefreshInterval <= 0 {
		return defaultRefresh * time.Second
	}
	return time.Duration(c.GasRefreshInterval) * time.Second
}

// Testnet reports whether the configured mode is testnet.
func (c *Config) Testnet() bool { return c.NetworkMode == "testnet" }

// Network returns TXFORGE_NETWORK when set, else the default network.
func (c *Config) Network() string {
	if env := os.Getenv(EnvNetwork); env != "" {
		return env
	}
	return c.DefaultNetwork
}

// Wallet returns TXFORGE_WALLET when set, else the default wallet.
func (c *Config) Wallet() string {
	if env := os.Getenv(EnvWallet); env != "" {
		return env
	}
	return c.DefaultWallet
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath is where the wallet store lives.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// ContractsPath is where saved contract functions live.
func (c *Config) ContractsPath() string {
	return filepath.Join(c.configDir, contractsFile)
}

func defaults(dir string) *Config {
	return &Config{
		DefaultNetwork:     defaultNetwork,
		NetworkMode:        defaultMode,
		RPCAlgorithm:       defaultAlgorithm,
		GasRefreshInterval: defaultRefresh,
		CustomRPCs:         make(map[string][]string),
		configDir:          dir,
	}
}
