package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/txforge/internal/config"
)

func TestLoadDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "ethereum", cfg.DefaultNetwork)
	assert.Equal(t, "mainnet", cfg.NetworkMode)
	assert.Equal(t, "fastest", cfg.RPCAlgorithm)
	assert.Equal(t, 30*time.Second, cfg.GasRefresh())
	assert.False(t, cfg.Testnet())
	assert.Equal(t, dir, cfg.Dir())
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	cfg.DefaultNetwork = "base"
	cfg.DefaultWallet = "mywallet"
	cfg.RPCAlgorithm = "round-robin"
	cfg.NetworkMode = "testnet"
	cfg.GasRefreshInterval = 12

	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "base", reloaded.DefaultNetwork)
	assert.Equal(t, "mywallet", reloaded.DefaultWallet)
	assert.Equal(t, "round-robin", reloaded.RPCAlgorithm)
	assert.True(t, reloaded.Testnet())
	assert.Equal(t, 12*time.Second, reloaded.GasRefresh())
}

func TestSaveRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"mode", func(c *config.Config) { c.NetworkMode = "devnet" }},
		{"algorithm", func(c *config.Config) { c.RPCAlgorithm = "random" }},
		{"interval", func(c *config.Config) { c.GasRefreshInterval = -1 }},
		{"network", func(c *config.Config) { c.DefaultNetwork = "" }},
		{"rpc url", func(c *config.Config) { c.CustomRPCs["base"] = []string{"not a url"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(t.TempDir())
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Save())
		})
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"default_network":"base","network_mode":"sideways","rpc_algorithm":"fastest"}`), 0o600))

	_, err := config.Load(dir)
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{"), 0o600))

	_, err := config.Load(dir)
	assert.ErrorContains(t, err, "parsing config")
}

func TestLoadUsesEnvDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fromenv")
	t.Setenv(config.EnvConfigDir, dir)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir())
	assert.DirExists(t, dir)
}

func TestCustomRPCs(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.AddRPC("base", "https://rpc1.base"))
	require.NoError(t, cfg.AddRPC("base", "https://rpc2.base"))
	assert.Error(t, cfg.AddRPC("base", "https://rpc1.base"), "duplicate")
	assert.Error(t, cfg.AddRPC("base", "rpc3"), "not a URL")

	require.NoError(t, cfg.RemoveRPC("base", "https://rpc1.base"))
	assert.Equal(t, []string{"https://rpc2.base"}, cfg.GetRPCs("base"))

	assert.Error(t, cfg.RemoveRPC("base", "https://nonexistent.rpc"))

	require.NoError(t, cfg.RemoveRPC("base", "https://rpc2.base"))
	assert.Empty(t, cfg.GetRPCs("base"))
}

func TestEnvOverrides(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	cfg.DefaultWallet = "main"

	assert.Equal(t, "ethereum", cfg.Network())
	assert.Equal(t, "main", cfg.Wallet())

	t.Setenv(config.EnvNetwork, "optimism")
	t.Setenv(config.EnvWallet, "ci")
	assert.Equal(t, "optimism", cfg.Network())
	assert.Equal(t, "ci", cfg.Wallet())
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TXFORGE_TEST_FROM_DOTENV=yes\n"), 0o600))
	t.Setenv("TXFORGE_TEST_FROM_DOTENV", "")
	os.Unsetenv("TXFORGE_TEST_FROM_DOTENV") //nolint:errcheck

	require.NoError(t, config.LoadEnv(dir))
	assert.Equal(t, "yes", os.Getenv("TXFORGE_TEST_FROM_DOTENV"))

	assert.NoError(t, config.LoadEnv(filepath.Join(dir, "missing")), "missing files are fine")
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "wallets.json"), cfg.WalletsPath())
	assert.Equal(t, filepath.Join(dir, "contracts.json"), cfg.ContractsPath())
}
