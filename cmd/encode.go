package cmd

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/txforge/internal/contract"
	"github.com/Mohsinsiddi/txforge/internal/ui"
)

var (
	codecSig  string
	codecABI  string
	codecArgs []string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode calldata for a function without sending it",
	Long: `Coerce --arg values exactly as read/simulate/send would and print the
resulting calldata. Useful for multisigs, timelocks and raw eth_call.

Examples:
  txforge encode --sig "transfer(address to, uint256 amount)" \
    --arg to=0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045 --arg amount=1000000000000000000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := codecDescriptor()
		if err != nil {
			return err
		}
		data, err := encodeArgs(d, codecArgs)
		if err != nil {
			return err
		}

		pairs := [][2]string{
			{"Signature", d.Signature()},
			{"Selector", d.Selector()},
		}
		pairs = append(pairs,
			[2]string{"Calldata", ui.Val(hexutil.Encode(data))},
			[2]string{"Bytes", fmt.Sprint(len(data))},
		)
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("Encoded Calldata", pairs))
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Decode return data against a function's outputs",
	Long: `Decode raw return data (for example the result of an eth_call) using the
outputs declared by --sig or --abi.

Examples:
  txforge decode --sig "balanceOf(address) view returns (uint256)" 0x...0de0b6b3a7640000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := codecDescriptor()
		if err != nil {
			return err
		}
		if !d.HasOutputs() {
			return fmt.Errorf("%s declares no outputs to decode against", d.Name)
		}
		raw, err := hexutil.Decode(strings.TrimSpace(args[0]))
		if err != nil {
			return fmt.Errorf("return data: %w", err)
		}
		values, err := contract.DecodeResult(d, raw)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), contract.RenderValues(values))
		return nil
	},
}

func codecDescriptor() (*contract.Descriptor, error) {
	if codecABI != "" {
		text, err := readSource(codecABI)
		if err != nil {
			return nil, err
		}
		return contract.Parse(contract.FormatABI, text)
	}
	return contract.Parse(contract.FormatSignature, codecSig)
}

// encodeArgs coerces key=value pairs and packs them into calldata.
func encodeArgs(d *contract.Descriptor, pairs []string) ([]byte, error) {
	b, err := parseArgs(d, pairs)
	if err != nil {
		return nil, err
	}
	values, err := b.Args(d)
	if err != nil {
		return nil, err
	}
	return contract.EncodeCall(d, values)
}

func init() {
	for _, c := range []*cobra.Command{encodeCmd, decodeCmd} {
		c.Flags().StringVar(&codecSig, "sig", "", "function signature text")
		c.Flags().StringVar(&codecABI, "abi", "", "JSON ABI fragment or @file")
		c.MarkFlagsMutuallyExclusive("sig", "abi")
		c.MarkFlagsOneRequired("sig", "abi")
	}
	encodeCmd.Flags().StringArrayVar(&codecArgs, "arg", nil, "argument as key=value (repeatable)")
}
