package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/txforge/internal/contract"
	"github.com/Mohsinsiddi/txforge/internal/ui"
)

var (
	contractAddress string
	contractABI     string
	contractSig     string
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Save contract functions to call by name",
}

var contractAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Save a function description bound to a contract address",
	Long: `Save a function description with its contract address for the current
network. Saved functions are used with --saved.

Examples:
  txforge contract add usdc-balance --address 0xA0b8... --sig "balanceOf(address owner) view returns (uint256)"
  txforge contract add mint --address 0x1234... --abi @mint.json --network base`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validate.Var(contractAddress, "required,eth_addr"); err != nil {
			return fmt.Errorf("--address must be a contract address")
		}
		c, _, err := resolveChain()
		if err != nil {
			return err
		}

		format, text := contract.FormatSignature, contractSig
		if contractABI != "" {
			format = contract.FormatABI
			if text, err = readSource(contractABI); err != nil {
				return err
			}
		}

		reg, err := newContractRegistry()
		if err != nil {
			return err
		}
		e := &contract.Entry{Name: args[0], Network: c.Name, Address: contractAddress, Format: format, Source: text}
		if err := reg.Add(e); err != nil {
			return err
		}
		if err := reg.Save(); err != nil {
			return err
		}
		d, _ := e.Parse()
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Saved %s on %s: %s", args[0], ui.ChainName(c.Name), d.Signature())))
		return nil
	},
}

var contractListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved functions",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newContractRegistry()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		entries := reg.All()
		if len(entries) == 0 {
			fmt.Fprintln(out, ui.Meta("No saved functions. Add one with: txforge contract add <name> --address 0x... --sig ..."))
			return nil
		}
		t := ui.NewTable(
			ui.Column{Title: "Name"},
			ui.Column{Title: "Network"},
			ui.Column{Title: "Address"},
			ui.Column{Title: "Function"},
			ui.Column{Title: "Mode"},
		)
		for _, e := range entries {
			sig, mode := ui.Err("unparseable"), ""
			if d, err := e.Parse(); err == nil {
				sig = d.Signature()
				mode = string(d.Mutability)
			}
			t.AddRow(e.Name, ui.ChainName(e.Network), ui.Addr(ui.TruncateAddr(e.Address)), sig, ui.Meta(mode))
		}
		fmt.Fprint(out, t.Render())
		return nil
	},
}

var contractRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a saved function from the current network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := resolveChain()
		if err != nil {
			return err
		}
		reg, err := newContractRegistry()
		if err != nil {
			return err
		}
		if err := reg.Remove(args[0], c.Name); err != nil {
			return err
		}
		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Removed %s from %s", args[0], c.Name)))
		return nil
	},
}

func init() {
	contractAddCmd.Flags().StringVarP(&contractAddress, "address", "a", "", "contract address (required)")
	contractAddCmd.Flags().StringVar(&contractSig, "sig", "", "function signature text")
	contractAddCmd.Flags().StringVar(&contractABI, "abi", "", "JSON ABI fragment or @file")
	contractAddCmd.MarkFlagsMutuallyExclusive("sig", "abi")
	contractAddCmd.MarkFlagsOneRequired("sig", "abi")
	contractCmd.AddCommand(contractAddCmd, contractListCmd, contractRemoveCmd)
}
