package config

import "time"

// Timeouts used by the CLI.
const (
	RPCSelectTimeout = 10 * time.Second // BestEVM benchmark / RPC selection
	CallTimeout      = 30 * time.Second // a single read, simulate or send
)

// Environment overrides.
const (
	EnvConfigDir = "TXFORGE_CONFIG_DIR"
	EnvNetwork   = "TXFORGE_NETWORK"
	EnvWallet    = "TXFORGE_WALLET"
)
