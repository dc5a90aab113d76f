package config

// Config holds all txforge configuration.
type Config struct {
	DefaultNetwork     string              `json:"default_network"      validate:"required"`
	DefaultWallet      string              `json:"default_wallet"`
	NetworkMode        string              `json:"network_mode"         validate:"oneof=mainnet testnet"`
	RPCAlgorithm       string              `json:"rpc_algorithm"        validate:"oneof=fastest round-robin failover"`
	GasRefreshInterval int                 `json:"gas_refresh_interval" validate:"gte=0,lte=3600"` // seconds, 0 means default
	CustomRPCs         map[string][]string `json:"custom_rpcs"          validate:"dive,dive,url"`

	// internal: config dir path used for Save()
	configDir string
}
