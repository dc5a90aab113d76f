package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/txforge/internal/chain"
	"github.com/Mohsinsiddi/txforge/internal/ui"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported chains",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		t := ui.NewTable(
			ui.Column{Title: "Name"},
			ui.Column{Title: "Display"},
			ui.Column{Title: "Chain ID"},
			ui.Column{Title: "Testnet"},
			ui.Column{Title: "Testnet ID"},
			ui.Column{Title: "Currency"},
			ui.Column{Title: ""},
		)
		for _, c := range chain.NewRegistry().All() {
			marker := ""
			if c.Name == cfg.Network() {
				marker = ui.StyleSuccess.Render("● " + cfg.NetworkMode)
			}
			t.AddRow(
				ui.ChainName(c.Name),
				c.DisplayName,
				fmt.Sprint(c.ChainID),
				c.TestnetName,
				fmt.Sprint(c.TestnetChainID),
				c.NativeCurrency,
				marker,
			)
		}
		fmt.Fprint(out, t.Render())
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use <chain>",
	Short: "Set the default network",
	Long: `Set the default chain and persist it to config.

When combined with --testnet or --mainnet the network mode is also persisted.

Examples:
  txforge network use base
  txforge network use optimism --testnet`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chain.NewRegistry().GetByName(args[0])
		if err != nil {
			return fmt.Errorf("unknown chain %q: run `txforge network list` to see all chains", args[0])
		}
		cfg.DefaultNetwork = c.Name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Default network set to %s (%s)", ui.ChainName(c.NetworkName(cfg.NetworkMode)), cfg.NetworkMode)))
		return nil
	},
}

func init() {
	networkCmd.AddCommand(networkListCmd, networkUseCmd)
}
