package chain_test

import (
	"testing"

	"github.com/Mohsinsiddi/txforge/internal/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryHasAllChains(t *testing.T) {
	registry := chain.NewRegistry()
	assert.Len(t, registry.All(), 6)
}

func TestRegistryGetByName(t *testing.T) {
	registry := chain.NewRegistry()

	tests := []struct {
		name    string
		chainID int64
		testnet int64
	}{
		{"ethereum", 1, 11155111},
		{"polygon", 137, 80002},
		{"optimism", 10, 11155420},
		{"arbitrum", 42161, 421614},
		{"base", 8453, 84532},
		{"celo", 42220, 44787},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := registry.GetByName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.chainID, c.ID(chain.ModeMainnet))
			assert.Equal(t, tt.testnet, c.ID(chain.ModeTestnet))
		})
	}
}

func TestRegistryGetByNameCaseInsensitive(t *testing.T) {
	c, err := chain.NewRegistry().GetByName("Base")
	require.NoError(t, err)
	assert.Equal(t, "base", c.Name)
}

func TestRegistryGetUnknownChain(t *testing.T) {
	registry := chain.NewRegistry()
	_, err := registry.GetByName("unknownchain")
	assert.ErrorIs(t, err, chain.ErrChainNotFound)

	_, _, err = registry.GetByChainID(999999)
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
}

func TestRegistryGetByChainID(t *testing.T) {
	registry := chain.NewRegistry()

	c, mode, err := registry.GetByChainID(84532)
	require.NoError(t, err)
	assert.Equal(t, "base", c.Name)
	assert.Equal(t, chain.ModeTestnet, mode)
	assert.Equal(t, "Base Sepolia", c.NetworkName(mode))

	c, mode, err = registry.GetByChainID(137)
	require.NoError(t, err)
	assert.Equal(t, "polygon", c.Name)
	assert.Equal(t, chain.ModeMainnet, mode)
	assert.Equal(t, "POL", c.NativeCurrency)
}

func TestAllChainsHaveRPCAndExplorer(t *testing.T) {
	registry := chain.NewRegistry()
	for _, c := range registry.All() {
		t.Run(c.Name, func(t *testing.T) {
			assert.NotEmpty(t, c.RPCs(chain.ModeMainnet), "chain %s has no mainnet RPCs", c.Name)
			assert.NotEmpty(t, c.RPCs(chain.ModeTestnet), "chain %s has no testnet RPCs", c.Name)
			assert.NotEmpty(t, c.Explorer(chain.ModeMainnet))
			assert.NotEmpty(t, c.Explorer(chain.ModeTestnet))
			assert.NotEmpty(t, c.NativeCurrency)
		})
	}
}

func TestExplorerTxURL(t *testing.T) {
	registry := chain.NewRegistry()
	hash := "0xabc123"

	tests := []struct {
		chainID int64
		want    string
	}{
		{1, "https://etherscan.io/tx/0xabc123"},
		{137, "https://polygonscan.com/tx/0xabc123"},
		{10, "https://optimistic.etherscan.io/tx/0xabc123"},
		{42161, "https://arbiscan.io/tx/0xabc123"},
		{8453, "https://basescan.org/tx/0xabc123"},
		{42220, "https://celoscan.io/tx/0xabc123"},
		{11155111, "https://sepolia.etherscan.io/tx/0xabc123"},
		{5, "https://goerli.etherscan.io/tx/0xabc123"},
		{80002, "https://amoy.polygonscan.com/tx/0xabc123"},
		{421614, "https://sepolia.arbiscan.io/tx/0xabc123"},
		{11155420, "https://sepolia-optimism.etherscan.io/tx/0xabc123"},
		{84532, "https://sepolia.basescan.org/tx/0xabc123"},
		{44787, "https://alfajores.celoscan.io/tx/0xabc123"},
		{31337, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, registry.ExplorerTxURL(tt.chainID, hash), "chain %d", tt.chainID)
	}

	assert.Empty(t, registry.ExplorerTxURL(1, ""))
}
