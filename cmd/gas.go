package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/txforge/internal/chain"
	"github.com/Mohsinsiddi/txforge/internal/config"
	"github.com/Mohsinsiddi/txforge/internal/engine"
	"github.com/Mohsinsiddi/txforge/internal/ui"
)

var gasWatchFlag bool

var gasCmd = &cobra.Command{
	Use:   "gas",
	Short: "Show the current gas price",
	Long: `Show the current gas price of the selected network. With --watch the
price is refreshed every gas_refresh_interval seconds (default 30) until you
press q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, mode, err := resolveChain()
		if err != nil {
			return err
		}
		dialCtx, cancel := context.WithTimeout(cmd.Context(), config.RPCSelectTimeout)
		client, err := dialChain(dialCtx, c, mode)
		cancel()
		if err != nil {
			return err
		}
		defer client.Close()

		if gasWatchFlag {
			ctx, stop := context.WithCancel(cmd.Context())
			defer stop()
			w := engine.NewGasWatcher(client, cfg.GasRefresh(), log)
			w.Start(ctx)
			defer w.Stop()
			return ui.RunGasView(c.NetworkName(mode), cfg.GasRefresh(), w.Updates())
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), config.CallTimeout)
		defer cancel()
		info, err := client.GasInfo(ctx)
		if err != nil {
			return err
		}
		pairs := [][2]string{
			{"Network", c.NetworkName(mode)},
			{"Gas price", chain.FormatGwei(info.GasPrice) + " gwei"},
		}
		if baseFee, dynamic := info.GasPriceDisplay(); dynamic {
			pairs = append(pairs, [2]string{"Base fee", baseFee + " gwei"})
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("Gas", pairs))
		return nil
	},
}

func init() {
	gasCmd.Flags().BoolVarP(&gasWatchFlag, "watch", "w", false, "live view")
}
