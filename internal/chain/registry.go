package chain

import (
	"errors"
	"strings"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// Network modes.
const (
	ModeMainnet = "mainnet"
	ModeTestnet = "testnet"
)

// Chain holds all metadata for a single chain and its testnet.
type Chain struct {
	Name            string   `json:"name"`
	DisplayName     string   `json:"display_name"`
	ChainID         int64    `json:"chain_id"`
	TestnetChainID  int64    `json:"testnet_chain_id"`
	NativeCurrency  string   `json:"native_currency"`
	MainnetRPCs     []string `json:"mainnet_rpcs"`
	TestnetRPCs     []string `json:"testnet_rpcs"`
	MainnetExplorer string   `json:"mainnet_explorer"`
	TestnetExplorer string   `json:"testnet_explorer"`
	TestnetName     string   `json:"testnet_name"`
}

// Registry is the chain registry.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
	// explorers maps every known chain ID, mainnet or testnet, to its
	// block explorer base URL.
	explorers map[int64]string
}

// Explorers for chain IDs that are no longer offered but may still appear
// on wallets connected to them.
var legacyExplorers = map[int64]string{
	5: "https://goerli.etherscan.io", // Goerli
}

// NewRegistry creates and returns the registry of supported chains.
func NewRegistry() *Registry {
	chains := allChains()
	r := &Registry{
		chains:    chains,
		byName:    make(map[string]*Chain, len(chains)),
		explorers: make(map[int64]string, 2*len(chains)+len(legacyExplorers)),
	}
	for id, url := range legacyExplorers {
		r.explorers[id] = url
	}
	for i := range r.chains {
		c := &r.chains[i]
		r.byName[c.Name] = c
		r.explorers[c.ChainID] = c.MainnetExplorer
		r.explorers[c.TestnetChainID] = c.TestnetExplorer
	}
	return r
}

// All returns every chain in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a chain by its slug name (e.g. "base", "ethereum").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// GetByChainID finds a chain by a mainnet or testnet chain ID and reports
// which mode the ID belongs to.
func (r *Registry) GetByChainID(id int64) (*Chain, string, error) {
	for i := range r.chains {
		c := &r.chains[i]
		switch id {
		case c.ChainID:
			return c, ModeMainnet, nil
		case c.TestnetChainID:
			return c, ModeTestnet, nil
		}
	}
	return nil, "", ErrChainNotFound
}

// ExplorerTxURL returns the explorer link for a transaction, or "" when the
// chain has no known explorer.
func (r *Registry) ExplorerTxURL(chainID int64, txHash string) string {
	base, ok := r.explorers[chainID]
	if !ok || base == "" || txHash == "" {
		return ""
	}
	return base + "/tx/" + txHash
}

// ID returns the chain ID for the given mode.
func (c *Chain) ID(mode string) int64 {
	if mode == ModeTestnet {
		return c.TestnetChainID
	}
	return c.ChainID
}

// RPCs returns the RPC list for a chain in the given mode.
func (c *Chain) RPCs(mode string) []string {
	if mode == ModeTestnet {
		return c.TestnetRPCs
	}
	return c.MainnetRPCs
}

// Explorer returns the explorer URL for a chain in the given mode.
func (c *Chain) Explorer(mode string) string {
	if mode == ModeTestnet {
		return c.TestnetExplorer
	}
	return c.MainnetExplorer
}

// NetworkName returns the display name for the given mode, e.g. "Base Sepolia".
func (c *Chain) NetworkName(mode string) string {
	if mode == ModeTestnet {
		return c.TestnetName
	}
	return c.DisplayName
}

// --- chain data ---

func allChains() []Chain {
	return []Chain{
		{
			Name: "ethereum", DisplayName: "Ethereum", ChainID: 1, TestnetChainID: 11155111,
			NativeCurrency:  "ETH",
			MainnetRPCs:     []string{"https://eth.llamarpc.com", "https://ethereum-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://rpc.sepolia.org", "https://sepolia.gateway.tenderly.co"},
			MainnetExplorer: "https://etherscan.io",
			TestnetExplorer: "https://sepolia.etherscan.io",
			TestnetName:     "Sepolia",
		},
		{
			Name: "polygon", DisplayName: "Polygon", ChainID: 137, TestnetChainID: 80002,
			NativeCurrency:  "POL",
			MainnetRPCs:     []string{"https://polygon-bor-rpc.publicnode.com", "https://polygon-pokt.nodies.app"},
			TestnetRPCs:     []string{"https://rpc-amoy.polygon.technology"},
			MainnetExplorer: "https://polygonscan.com",
			TestnetExplorer: "https://amoy.polygonscan.com",
			TestnetName:     "Amoy",
		},
		{
			Name: "optimism", DisplayName: "Optimism", ChainID: 10, TestnetChainID: 11155420,
			NativeCurrency:  "ETH",
			MainnetRPCs:     []string{"https://mainnet.optimism.io", "https://optimism.llamarpc.com"},
			TestnetRPCs:     []string{"https://sepolia.optimism.io"},
			MainnetExplorer: "https://optimistic.etherscan.io",
			TestnetExplorer: "https://sepolia-optimism.etherscan.io",
			TestnetName:     "OP Sepolia",
		},
		{
			Name: "arbitrum", DisplayName: "Arbitrum", ChainID: 42161, TestnetChainID: 421614,
			NativeCurrency:  "ETH",
			MainnetRPCs:     []string{"https://arb1.arbitrum.io/rpc", "https://arbitrum.llamarpc.com"},
			TestnetRPCs:     []string{"https://sepolia-rollup.arbitrum.io/rpc"},
			MainnetExplorer: "https://arbiscan.io",
			TestnetExplorer: "https://sepolia.arbiscan.io",
			TestnetName:     "Arb Sepolia",
		},
		{
			Name: "base", DisplayName: "Base", ChainID: 8453, TestnetChainID: 84532,
			NativeCurrency:  "ETH",
			MainnetRPCs:     []string{"https://mainnet.base.org", "https://base.llamarpc.com"},
			TestnetRPCs:     []string{"https://sepolia.base.org"},
			MainnetExplorer: "https://basescan.org",
			TestnetExplorer: "https://sepolia.basescan.org",
			TestnetName:     "Base Sepolia",
		},
		{
			Name: "celo", DisplayName: "Celo", ChainID: 42220, TestnetChainID: 44787,
			NativeCurrency:  "CELO",
			MainnetRPCs:     []string{"https://forno.celo.org", "https://celo-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://alfajores-forno.celo-testnet.org"},
			MainnetExplorer: "https://celoscan.io",
			TestnetExplorer: "https://alfajores.celoscan.io",
			TestnetName:     "Alfajores",
		},
	}
}
