package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/txforge/internal/ui"
	"github.com/Mohsinsiddi/txforge/internal/wallet"
)

var (
	walletKeyFlag string
	walletSetFlag bool
	walletYesFlag bool
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name> <address>",
	Short: "Add a watch-only wallet",
	Long: `Add a watch-only wallet. Watch-only wallets cannot send, but simulate
uses them to check whether the balance covers the gas cost.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, address := args[0], args[1]
		if err := validate.Var(address, "eth_addr"); err != nil {
			return fmt.Errorf("%w: %s", wallet.ErrInvalidAddress, address)
		}
		mgr := newWalletManager()
		if err := mgr.Add(name, address); err != nil {
			return err
		}
		w, _ := mgr.Get(name)
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Watch-only wallet %q added: %s", name, ui.Addr(w.Address))))
		return setDefaultIfAsked(cmd, mgr, name)
	},
}

var walletImportCmd = &cobra.Command{
	Use:   "import <name>",
	Short: "Import a private key into the OS keychain",
	Long: `Import a signing wallet. The key is read from --key, or from stdin
when --key is omitted, and stored in the OS keychain. Only the address is
written to wallets.json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		key := walletKeyFlag
		if key == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Private key: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("no private key given")
			}
			key = strings.TrimSpace(line)
		}
		mgr := newWalletManager()
		if err := mgr.AddWithKey(name, key); err != nil {
			return err
		}
		w, _ := mgr.Get(name)
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Signing wallet %q imported: %s", name, ui.Addr(w.Address))))
		return setDefaultIfAsked(cmd, mgr, name)
	},
}

var walletGenerateCmd = &cobra.Command{
	Use:   "generate <name>",
	Short: "Create a signing wallet with a fresh key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newWalletManager()
		w, err := mgr.Generate(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Signing wallet %q created: %s", w.Name, ui.Addr(w.Address))))
		return setDefaultIfAsked(cmd, mgr, w.Name)
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		wallets := newWalletManager().List()
		if len(wallets) == 0 {
			fmt.Fprintln(out, ui.Meta("No wallets configured yet. Add one with: txforge wallet add <name> <address>"))
			return nil
		}

		t := ui.NewTable(
			ui.Column{Title: "Name"},
			ui.Column{Title: "Address"},
			ui.Column{Title: "Type"},
			ui.Column{Title: "Default"},
		)
		for _, w := range wallets {
			def := ""
			if w.IsDefault || w.Name == cfg.DefaultWallet {
				def = ui.StyleSuccess.Render("✓")
			}
			t.AddRow(w.Name, ui.Addr(w.Address), ui.Meta(w.Type), def)
		}
		fmt.Fprint(out, t.Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d wallet(s)", len(wallets))))
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newWalletManager()
		return useWallet(cmd, mgr, args[0])
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !walletYesFlag && !ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Remove wallet %q?", name)) {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Meta("Cancelled."))
			return nil
		}
		if err := newWalletManager().Remove(name); err != nil {
			return err
		}
		if cfg.DefaultWallet == name {
			cfg.DefaultWallet = ""
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

func useWallet(cmd *cobra.Command, mgr *wallet.Manager, name string) error {
	if err := mgr.SetDefault(name); err != nil {
		return err
	}
	cfg.DefaultWallet = name
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Default wallet set to %q", name)))
	return nil
}

func setDefaultIfAsked(cmd *cobra.Command, mgr *wallet.Manager, name string) error {
	if !walletSetFlag {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Meta("Set as default with: txforge wallet use "+name))
		return nil
	}
	return useWallet(cmd, mgr, name)
}

func init() {
	walletImportCmd.Flags().StringVar(&walletKeyFlag, "key", "", "hex private key (read from stdin when omitted)")
	for _, c := range []*cobra.Command{walletAddCmd, walletImportCmd, walletGenerateCmd} {
		c.Flags().BoolVar(&walletSetFlag, "default", false, "also make it the default wallet")
	}
	walletRemoveCmd.Flags().BoolVarP(&walletYesFlag, "yes", "y", false, "skip the confirmation prompt")
	walletCmd.AddCommand(walletAddCmd, walletImportCmd, walletGenerateCmd, walletListCmd, walletUseCmd, walletRemoveCmd)
}
