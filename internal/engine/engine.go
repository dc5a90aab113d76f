// Package engine runs read, simulate and send invocations of a parsed
// contract function against a chain.
package engine

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/txforge/internal/chain"
	"github.com/Mohsinsiddi/txforge/internal/contract"
)

// ChainClient is the read side of a chain connection.
type ChainClient interface {
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	Balance(ctx context.Context, addr common.Address) (*big.Int, error)
	Call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

// Wallet signs and broadcasts transactions for one account. The wallet
// fills nonce, fees and gas limit itself.
type Wallet interface {
	Address() common.Address
	SendTransaction(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error)
}

// Explorer builds block explorer links.
type Explorer interface {
	ExplorerTxURL(chainID int64, txHash string) string
}

// ChainInfo describes the connected chain.
type ChainInfo struct {
	ID     int64
	Symbol string
}

// Engine executes invocations. It holds no per-function state; every
// operation works on an explicit *Session.
type Engine struct {
	chain    ChainClient
	wallet   Wallet
	explorer Explorer
	info     ChainInfo
	log      *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWallet sets the signing wallet. Without one, simulations run from the
// zero address and sending is unavailable.
func WithWallet(w Wallet) Option {
	return func(e *Engine) { e.wallet = w }
}

// WithChainInfo sets the chain ID and native currency symbol.
func WithChainInfo(info ChainInfo) Option {
	return func(e *Engine) { e.info = info }
}

// WithExplorer sets the explorer used for transaction links.
func WithExplorer(x Explorer) Option {
	return func(e *Engine) { e.explorer = x }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an Engine on top of a chain client. c may be nil, in which case
// reads and simulations are unavailable.
func New(c ChainClient, opts ...Option) *Engine {
	e := &Engine{
		chain: c,
		info:  ChainInfo{Symbol: "ETH"},
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Invoke runs the default mode for the session's function: a read for
// view/pure functions, a simulation otherwise. Sending is always explicit.
func (e *Engine) Invoke(ctx context.Context, s *Session) Outcome {
	d := s.Descriptor()
	if d == nil {
		return nil
	}
	if d.IsReadOnly() {
		return e.Read(ctx, s)
	}
	return e.Simulate(ctx, s)
}

// CallIntent is a fully resolved invocation.
type CallIntent struct {
	Descriptor *contract.Descriptor
	To         common.Address
	Args       []any
	Data       []byte
	Value      *big.Int
}

// intent coerces the arguments, encodes the call and resolves the target
// and native value. Coercion failures surface here.
func intent(in snapshot, withValue bool) (*CallIntent, error) {
	if !common.IsHexAddress(in.address) {
		return nil, fmt.Errorf("invalid contract address %q", in.address)
	}
	args, err := in.bindings.Args(in.desc)
	if err != nil {
		return nil, err
	}
	data, err := contract.EncodeCall(in.desc, args)
	if err != nil {
		return nil, err
	}

	value := new(big.Int)
	if withValue && strings.TrimSpace(in.value) != "" {
		if value, err = chain.ParseEther(in.value); err != nil {
			return nil, fmt.Errorf("invalid value: %w", err)
		}
	}
	return &CallIntent{
		Descriptor: in.desc,
		To:         common.HexToAddress(in.address),
		Args:       args,
		Data:       data,
		Value:      value,
	}, nil
}

// walletAddress returns the wallet's account and whether it is known.
func (e *Engine) walletAddress() (common.Address, bool) {
	if e.wallet == nil {
		return common.Address{}, false
	}
	addr := e.wallet.Address()
	return addr, addr != (common.Address{})
}

// finish commits o to the session and hands it back to the caller either
// way.
func (e *Engine) finish(s *Session, seq uint64, o Outcome) Outcome {
	if !s.commit(seq, o) {
		e.log.Debug("discarding stale outcome", zap.Uint64("seq", seq))
	}
	return o
}

func (e *Engine) fail(s *Session, seq uint64, mode Mode, msg string) Outcome {
	e.log.Debug("invocation failed",
		zap.String("mode", string(mode)),
		zap.Uint64("seq", seq),
		zap.String("error", msg))
	return e.finish(s, seq, &Failure{Mode: mode, Message: msg})
}
