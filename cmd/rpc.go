package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/txforge/internal/config"
	"github.com/Mohsinsiddi/txforge/internal/rpc"
	"github.com/Mohsinsiddi/txforge/internal/ui"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Inspect the RPC endpoints txforge dials",
}

var rpcListCmd = &cobra.Command{
	Use:   "list",
	Short: "List RPCs for the current network, custom first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, mode, err := resolveChain()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.StyleTitle.Render("RPCs for "+c.NetworkName(mode)))
		for _, u := range cfg.GetRPCs(c.Name) {
			fmt.Fprintf(out, "  %s %s\n", ui.Meta("(custom)"), u)
		}
		for _, u := range c.RPCs(mode) {
			fmt.Fprintf(out, "  %s %s\n", ui.Meta("("+mode+")"), u)
		}
		return nil
	},
}

var rpcTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Probe every RPC for the current network",
	Long: `Probe each RPC of the current network for latency and chain head, and
mark the one the configured algorithm would pick.

Examples:
  txforge rpc test
  txforge rpc test -n arbitrum --testnet`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, mode, err := resolveChain()
		if err != nil {
			return err
		}
		urls := append(append([]string{}, cfg.GetRPCs(c.Name)...), c.RPCs(mode)...)
		algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), config.RPCSelectTimeout)
		defer cancel()

		results := ui.Run(cmd.ErrOrStderr(), "Probing "+c.NetworkName(mode)+" RPCs...", func() []rpc.Endpoint {
			return rpc.ProbeAll(ctx, urls)
		})
		picked, pickErr := rpc.NewPicker(algo).Pick(results)

		t := ui.NewTable(
			ui.Column{Title: "RPC URL", Width: 48},
			ui.Column{Title: "Latency"},
			ui.Column{Title: "Block #"},
			ui.Column{Title: "Status"},
		)
		for _, r := range results {
			latency, block, status := "-", "-", ui.Err("down")
			if r.Usable() {
				latency = r.Latency.Round(time.Millisecond).String()
				block = fmt.Sprint(r.BlockNumber)
				status = ui.Success("healthy")
			}
			if pickErr == nil && r.URL == picked.URL {
				status += " " + ui.StyleSelected.Render(string(algo))
			}
			t.AddRow(r.URL, latency, block, status)
		}
		fmt.Fprint(cmd.OutOrStdout(), t.Render())
		return pickErr
	},
}

func init() {
	rpcCmd.AddCommand(rpcListCmd, rpcTestCmd)
}
