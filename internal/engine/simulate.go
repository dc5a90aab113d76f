package engine

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Mohsinsiddi/txforge/internal/chain"
	"github.com/Mohsinsiddi/txforge/internal/contract"
)

// BufferedGas adds the 20% safety margin applied to gas estimates, rounded
// down. The result saturates at math.MaxUint64.
func BufferedGas(estimate uint64) uint64 {
	buffered := estimate + estimate/5
	if buffered < estimate {
		return math.MaxUint64
	}
	return buffered
}

// Simulate estimates gas and cost for a state-changing call without sending
// it. Functions with outputs are also executed as a static call to preview
// the return value. It returns nil without doing anything when there is no
// chain client, no state-changing descriptor or no contract address.
func (e *Engine) Simulate(ctx context.Context, s *Session) Outcome {
	in, seq, ok := s.start(func(in snapshot) bool {
		return e.chain != nil && in.desc != nil && !in.desc.IsReadOnly() && in.address != ""
	})
	if !ok {
		return nil
	}

	ci, err := intent(in, true)
	if err != nil {
		return e.fail(s, seq, ModeSimulate, err.Error())
	}
	from, known := e.walletAddress()
	msg := ethereum.CallMsg{From: from, To: &ci.To, Data: ci.Data, Value: ci.Value}

	e.log.Debug("simulate",
		zap.String("function", in.desc.Signature()),
		zap.Stringer("to", ci.To),
		zap.Stringer("from", from),
		zap.Stringer("value", ci.Value),
		zap.Uint64("seq", seq))

	var (
		gas   uint64
		price *big.Int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		gas, err = e.chain.EstimateGas(gctx, msg)
		return err
	})
	g.Go(func() error {
		var err error
		price, err = e.chain.GasPrice(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return e.fail(s, seq, ModeSimulate, ErrorMessage(err))
	}

	buffered := BufferedGas(gas)
	total := new(big.Int).Mul(new(big.Int).SetUint64(buffered), price)
	res := &SimulationResult{
		GasUnits:           strconv.FormatUint(gas, 10),
		GasUnitsWithBuffer: strconv.FormatUint(buffered, 10),
		GasPrice:           price.String(),
		TotalCost:          total.String(),
	}

	if in.desc.HasOutputs() {
		e.previewReturn(ctx, in.desc, msg, res)
	}

	if known {
		// Balance lookup failures leave the result without a warning.
		if bal, err := e.chain.Balance(ctx, from); err == nil && total.Cmp(bal) > 0 {
			res.BalanceWarning = fmt.Sprintf("Insufficient balance for gas. Need %s %s, you have %s",
				chain.FormatEther(total, 6), e.info.Symbol, chain.FormatEther(bal, 6))
		} else if err != nil {
			e.log.Debug("balance check failed", zap.Error(err))
		}
	}

	return e.finish(s, seq, res)
}

// previewReturn runs msg as a static call and records the decoded return
// value or the reason it failed. A revert here does not fail the simulation.
func (e *Engine) previewReturn(ctx context.Context, d *contract.Descriptor, msg ethereum.CallMsg, res *SimulationResult) {
	out, err := e.chain.Call(ctx, msg)
	if err != nil {
		res.ReturnError = ErrorMessage(err)
		return
	}
	if len(out) == 0 {
		return
	}
	values, err := contract.DecodeResult(d, out)
	if err != nil {
		res.ReturnError = err.Error()
		return
	}
	res.ReturnValue = contract.RenderValues(values)
}
