package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/txforge/internal/contract"
	"github.com/Mohsinsiddi/txforge/internal/engine"
	"github.com/Mohsinsiddi/txforge/internal/ui"
)

var (
	parseABI string
	parseSig string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a function description and show what txforge understood",
	Long: `Parse a Solidity-style signature or a JSON ABI fragment without touching
the network. Prints the canonical signature, the 4-byte selector, the
argument keys to bind with --arg, and the modes the function supports.

Examples:
  txforge parse --sig "transfer(address to, uint256 amount) returns (bool)"
  txforge parse --abi @artifact.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, text := contract.FormatSignature, parseSig
		if parseABI != "" {
			var err error
			format = contract.FormatABI
			if text, err = readSource(parseABI); err != nil {
				return err
			}
		}
		d, err := contract.Parse(format, text)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), describe(d))
		return nil
	},
}

// describe renders a descriptor as a key/value block.
func describe(d *contract.Descriptor) string {
	modes := make([]string, 0, 2)
	for _, m := range engine.AvailableModes(d) {
		modes = append(modes, string(m))
	}

	pairs := [][2]string{
		{"Function", d.String()},
		{"Signature", d.Signature()},
		{"Selector", d.Selector()},
		{"Mutability", string(d.Mutability)},
		{"Modes", strings.Join(modes, ", ")},
	}
	for i, in := range d.Inputs {
		pairs = append(pairs, [2]string{
			"--arg " + d.InputKey(i),
			fmt.Sprintf("%s  %s", in.Type, ui.Meta(contract.Placeholder(in.Tag()))),
		})
	}
	for i, out := range d.Outputs {
		name := out.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		pairs = append(pairs, [2]string{"returns " + name, out.Type})
	}
	return ui.MutabilityBadge(d) + "\n" + ui.KeyValueBlock("", pairs)
}

func init() {
	parseCmd.Flags().StringVar(&parseSig, "sig", "", "function signature text")
	parseCmd.Flags().StringVar(&parseABI, "abi", "", "JSON ABI fragment or @file")
	parseCmd.MarkFlagsMutuallyExclusive("sig", "abi")
	parseCmd.MarkFlagsOneRequired("sig", "abi")
}
