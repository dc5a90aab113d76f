package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"

	"github.com/Mohsinsiddi/txforge/internal/chain"
	"github.com/Mohsinsiddi/txforge/internal/contract"
	"github.com/Mohsinsiddi/txforge/internal/engine"
	"github.com/Mohsinsiddi/txforge/internal/rpc"
	"github.com/Mohsinsiddi/txforge/internal/ui"
	"github.com/Mohsinsiddi/txforge/internal/wallet"
)

var validate = validator.New()

// silentError has already been printed.
type silentError struct{ err error }

func (e *silentError) Error() string { return e.err.Error() }
func (e *silentError) Unwrap() error { return e.err }

func errorLine(err error) string {
	var s *silentError
	if errors.As(err, &s) {
		return ""
	}
	return ui.Err(err.Error())
}

// resolveChain returns the selected chain and network mode.
func resolveChain() (*chain.Chain, string, error) {
	name := networkFlag
	if name == "" {
		name = cfg.Network()
	}
	c, err := chain.NewRegistry().GetByName(name)
	if err != nil {
		return nil, "", fmt.Errorf("unknown chain %q: run `txforge network list` to see all chains", name)
	}
	return c, cfg.NetworkMode, nil
}

// dialChain connects to c using custom RPCs first, then the built-in list.
func dialChain(ctx context.Context, c *chain.Chain, mode string) (*chain.EVMClient, error) {
	urls := append(append([]string{}, cfg.GetRPCs(c.Name)...), c.RPCs(mode)...)
	if len(urls) == 0 {
		return nil, fmt.Errorf("no RPCs configured for %s (%s): add one with `txforge config set-rpc %s <url>`", c.Name, mode, c.Name)
	}
	algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
	if err != nil {
		return nil, err
	}
	return rpc.NewSelector(algo, log).Dial(ctx, urls)
}

func newWalletManager() *wallet.Manager {
	return wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())))
}

func newContractRegistry() (*contract.Registry, error) {
	r := contract.NewRegistry(cfg.ContractsPath())
	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

// readSource returns text, or the contents of the file when text is @path.
func readSource(text string) (string, error) {
	path, ok := strings.CutPrefix(text, "@")
	if !ok {
		return text, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// parseArgs splits key=value pairs into bindings for d. Keys must name an
// input of d.
func parseArgs(d *contract.Descriptor, pairs []string) (contract.Bindings, error) {
	b := contract.NewBindings(d)
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("argument %q: expected key=value", p)
		}
		k = strings.TrimSpace(k)
		if _, exists := b[k]; !exists {
			return nil, fmt.Errorf("argument %q: %s has no input named %q (inputs: %s)",
				p, d.Name, k, strings.Join(contract.Keys(d), ", "))
		}
		b[k] = v
	}
	return b, nil
}

// applyArgs binds key=value pairs on the session. Inputs not named keep
// their current value.
func applyArgs(s *engine.Session, d *contract.Descriptor, pairs []string) error {
	if _, err := parseArgs(d, pairs); err != nil {
		return err
	}
	for _, p := range pairs {
		k, v, _ := strings.Cut(p, "=")
		s.SetArg(strings.TrimSpace(k), v)
	}
	return nil
}

// watchWallet lets simulate check a watch-only wallet's balance.
type watchWallet struct{ addr common.Address }

func (w watchWallet) Address() common.Address { return w.addr }

func (w watchWallet) SendTransaction(context.Context, common.Address, []byte, *big.Int) (common.Hash, error) {
	return common.Hash{}, wallet.ErrWatchOnly
}

// walletName returns flag, else the configured default, else the manager's
// default wallet.
func walletName(mgr *wallet.Manager, flag string) string {
	if flag != "" {
		return flag
	}
	if name := cfg.Wallet(); name != "" {
		return name
	}
	if w := mgr.Default(); w != nil {
		return w.Name
	}
	return ""
}
