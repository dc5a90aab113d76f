package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/txforge/internal/chain"
	"github.com/Mohsinsiddi/txforge/internal/config"
	"github.com/Mohsinsiddi/txforge/internal/contract"
	"github.com/Mohsinsiddi/txforge/internal/engine"
	"github.com/Mohsinsiddi/txforge/internal/ens"
	"github.com/Mohsinsiddi/txforge/internal/ui"
	"github.com/Mohsinsiddi/txforge/internal/wallet"
)

type callKind string

const (
	callRead     callKind = "read"
	callSimulate callKind = "simulate"
	callSend     callKind = "send"
	callInvoke   callKind = "invoke"
)

var callShort = map[callKind]string{
	callRead:     "Call a view or pure function and decode the result",
	callSimulate: "Estimate gas and cost for a state-changing function",
	callSend:     "Sign and broadcast a state-changing function call",
	callInvoke:   "Read view functions, simulate everything else",
}

type callOptions struct {
	Address     string
	ABI         string
	Sig         string
	Saved       string
	Args        []string
	Value       string `validate:"omitempty,numeric"`
	Wallet      string
	Interactive bool
	Yes         bool
}

func newCallCmd(kind callKind) *cobra.Command {
	var opts callOptions
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: callShort[kind],
		Long: callShort[kind] + `.

The function is described by --sig (Solidity-style text), --abi (a JSON ABI
fragment, or @file) or --saved (a function stored with 'txforge contract add').
Arguments are bound by input name; unnamed inputs are arg0, arg1, ...

Examples:
  txforge ` + string(kind) + ` --address 0x... --sig "balanceOf(address owner) view returns (uint256)" --arg owner=0x...
  txforge ` + string(kind) + ` --saved usdc-transfer --arg to=0x... --arg amount=1000000
  txforge ` + string(kind) + ` --address 0x... --abi @erc20.json -i`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, kind, &opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.Address, "address", "a", "", "contract address or ENS name")
	f.StringVar(&opts.Sig, "sig", "", "function signature text")
	f.StringVar(&opts.ABI, "abi", "", "JSON ABI fragment or @file")
	f.StringVar(&opts.Saved, "saved", "", "name of a saved contract function")
	f.StringArrayVar(&opts.Args, "arg", nil, "argument as key=value (repeatable)")
	f.BoolVarP(&opts.Interactive, "interactive", "i", false, "fill arguments in a form")
	cmd.MarkFlagsMutuallyExclusive("sig", "abi", "saved")
	cmd.MarkFlagsOneRequired("sig", "abi", "saved")
	if kind != callRead {
		f.StringVar(&opts.Value, "value", "", "native amount to attach, in ETH units (payable functions)")
		f.StringVarP(&opts.Wallet, "wallet", "w", "", "wallet name (default: config)")
	}
	if kind == callSend {
		f.BoolVarP(&opts.Yes, "yes", "y", false, "skip the confirmation prompt")
	}
	return cmd
}

func runCall(cmd *cobra.Command, kind callKind, opts *callOptions) error {
	if err := validate.Struct(opts); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	if !ens.IsName(opts.Address) {
		if err := validate.Var(opts.Address, "omitempty,eth_addr"); err != nil {
			return fmt.Errorf("--address %q is neither a contract address nor an ENS name", opts.Address)
		}
	}

	s, err := buildSession(opts)
	if err != nil {
		return err
	}
	d := s.Descriptor()

	mode := engine.Mode(kind)
	if kind == callInvoke {
		mode = engine.ModeSimulate
		if d.IsReadOnly() {
			mode = engine.ModeRead
		}
	}
	if !slices.Contains(engine.AvailableModes(d), mode) {
		if d.IsReadOnly() {
			return fmt.Errorf("%s is %s: use `txforge read`", d.Name, d.Mutability)
		}
		return fmt.Errorf("%s changes state: use `txforge simulate` or `txforge send`", d.Name)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.StyleChain.Render(d.String())+"  "+ui.MutabilityBadge(d))

	if opts.Interactive {
		b, value, err := ui.RunArgsForm(d, s.Bindings(), s.Value())
		if err != nil {
			return err
		}
		for k, v := range b {
			s.SetArg(k, v)
		}
		if value != "" {
			s.SetValue(value)
		}
	}
	if s.Address() == "" {
		return errors.New("--address is required (or use --saved)")
	}

	c, netMode, err := resolveChain()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), config.CallTimeout)
	defer cancel()

	client, err := dialChain(ctx, c, netMode)
	if err != nil {
		return err
	}
	defer client.Close()

	if name := s.Address(); ens.IsName(name) {
		addr, err := ens.Resolve(ctx, client, name)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Meta(name+" → ")+ui.Addr(addr.Hex()))
		s.SetAddress(addr.Hex())
	}

	engineOpts := []engine.Option{
		engine.WithChainInfo(engine.ChainInfo{ID: c.ID(netMode), Symbol: c.NativeCurrency}),
		engine.WithExplorer(chain.NewRegistry()),
		engine.WithLogger(log),
	}
	if mode != engine.ModeRead {
		w, err := callWallet(client, opts.Wallet, mode == engine.ModeSend)
		if err != nil {
			return err
		}
		if w != nil {
			engineOpts = append(engineOpts, engine.WithWallet(w))
		}
	}
	e := engine.New(client, engineOpts...)

	if mode == engine.ModeSend && !opts.Yes {
		prompt := fmt.Sprintf("Send %s to %s on %s?", d.Signature(), ui.TruncateAddr(s.Address()), c.NetworkName(netMode))
		if !ui.Confirm(cmd.InOrStdin(), out, prompt) {
			fmt.Fprintln(out, ui.Meta("Aborted."))
			return nil
		}
	}

	log.Debug("invoking",
		zap.String("mode", string(mode)),
		zap.String("function", d.Signature()),
		zap.String("address", s.Address()),
		zap.String("chain", c.Name),
	)
	o := ui.Run(os.Stderr, fmt.Sprintf("%s on %s...", mode, c.NetworkName(netMode)), func() engine.Outcome {
		switch mode {
		case engine.ModeRead:
			return e.Read(ctx, s)
		case engine.ModeSend:
			return e.Send(ctx, s)
		default:
			return e.Simulate(ctx, s)
		}
	})
	if o == nil {
		if mode == engine.ModeSend {
			return errors.New("no signing wallet: import one with `txforge wallet import` or pass --wallet")
		}
		return errors.New("nothing to invoke: check the address and function")
	}

	fmt.Fprintln(out, ui.RenderOutcome(o, c.NativeCurrency))
	if f, ok := o.(*engine.Failure); ok {
		return &silentError{err: f}
	}
	return nil
}

// buildSession parses the function source and binds the flag values.
func buildSession(opts *callOptions) (*engine.Session, error) {
	var (
		source  string
		mode    = engine.InputSignature
		address = opts.Address
		err     error
	)
	switch {
	case opts.Saved != "":
		reg, err := newContractRegistry()
		if err != nil {
			return nil, err
		}
		c, _, err := resolveChain()
		if err != nil {
			return nil, err
		}
		entry, err := reg.Get(opts.Saved, c.Name)
		if err != nil {
			return nil, fmt.Errorf("%w (see `txforge contract list`)", err)
		}
		source = entry.Source
		mode = engine.InputMode(entry.Format)
		if entry.Format == "" {
			mode = engine.InputMode(contract.DetectFormat(source))
		}
		if address == "" {
			address = entry.Address
		}
	case opts.ABI != "":
		mode = engine.InputABI
		source, err = readSource(opts.ABI)
	default:
		source, err = readSource(opts.Sig)
	}
	if err != nil {
		return nil, err
	}

	s := engine.NewSession(mode)
	if err := s.SetSource(source); err != nil {
		return nil, err
	}
	if s.Descriptor() == nil {
		return nil, errors.New("function description is empty")
	}
	if err := applyArgs(s, s.Descriptor(), opts.Args); err != nil {
		return nil, err
	}
	s.SetAddress(address)
	s.SetValue(opts.Value)
	return s, nil
}

// callWallet resolves the wallet for simulate and send. Simulate accepts a
// watch-only wallet, or none at all.
func callWallet(client *chain.EVMClient, name string, signing bool) (engine.Wallet, error) {
	mgr := newWalletManager()
	name = walletName(mgr, name)
	if name == "" {
		return nil, nil
	}
	w, err := mgr.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: run `txforge wallet list`", err)
	}
	if !w.CanSign() {
		if signing {
			return nil, fmt.Errorf("wallet %q is watch-only and cannot sign: import a key with `txforge wallet import`", name)
		}
		return watchWallet{addr: common.HexToAddress(w.Address)}, nil
	}
	signer, err := mgr.Signer(name)
	if err != nil {
		return nil, err
	}
	return wallet.NewSender(signer, client, log), nil
}
