package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/txforge/internal/config"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/txforge/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir      string
	cfg         *config.Config
	log         = zap.NewNop()
	verbose     bool
	testnet     bool
	mainnet     bool
	networkFlag string
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "txforge",
	Short: "Read, simulate and send smart-contract functions",
	Long: `txforge turns a function description into a contract call.

  Paste a Solidity-style signature or a JSON ABI fragment, fill in the
  arguments, then read the result, simulate the gas cost, or send the
  transaction from a keychain-backed wallet.

Global flags --testnet and --mainnet override the configured network mode
for a single invocation.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if verbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}
			log = l
		}

		dir, err := config.ResolveDir(cfgDir)
		if err != nil {
			return err
		}
		if err := config.LoadEnv(dir); err != nil {
			return err
		}
		cfg, err = config.Load(dir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if testnet {
			cfg.NetworkMode = "testnet"
		}
		if mainnet {
			cfg.NetworkMode = "mainnet"
		}
		log.Debug("config loaded",
			zap.String("dir", cfg.Dir()),
			zap.String("network", cfg.Network()),
			zap.String("mode", cfg.NetworkMode),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if line := errorLine(err); line != "" {
			fmt.Fprintln(os.Stderr, line)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default: $TXFORGE_CONFIG_DIR or ~/.txforge)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&testnet, "testnet", false, "use testnet instead of mainnet")
	rootCmd.PersistentFlags().BoolVar(&mainnet, "mainnet", false, "use mainnet instead of testnet")
	rootCmd.PersistentFlags().StringVarP(&networkFlag, "network", "n", "", "chain name (default: config)")
	rootCmd.MarkFlagsMutuallyExclusive("testnet", "mainnet")

	rootCmd.AddCommand(
		parseCmd,
		newCallCmd(callRead),
		newCallCmd(callSimulate),
		newCallCmd(callSend),
		newCallCmd(callInvoke),
		encodeCmd,
		decodeCmd,
		gasCmd,
		rpcCmd,
		contractCmd,
		walletCmd,
		networkCmd,
		configCmd,
	)
}
