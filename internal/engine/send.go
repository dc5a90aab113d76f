package engine

import (
	"context"

	"go.uber.org/zap"
)

// Send signs and broadcasts a state-changing call through the wallet. It
// returns nil without doing anything when there is no wallet, no
// state-changing descriptor or no contract address.
func (e *Engine) Send(ctx context.Context, s *Session) Outcome {
	in, seq, ok := s.start(func(in snapshot) bool {
		return e.wallet != nil && in.desc != nil && !in.desc.IsReadOnly() && in.address != ""
	})
	if !ok {
		return nil
	}

	ci, err := intent(in, true)
	if err != nil {
		return e.fail(s, seq, ModeSend, err.Error())
	}
	e.log.Debug("send",
		zap.String("function", in.desc.Signature()),
		zap.Stringer("to", ci.To),
		zap.Stringer("value", ci.Value),
		zap.Uint64("seq", seq))

	hash, err := e.wallet.SendTransaction(ctx, ci.To, ci.Data, ci.Value)
	if err != nil {
		msg := ErrorMessage(err)
		if msg == "" {
			msg = "Transaction failed"
		}
		return e.fail(s, seq, ModeSend, msg)
	}

	res := &SendResult{TxHash: hash.Hex()}
	if e.explorer != nil {
		res.ExplorerURL = e.explorer.ExplorerTxURL(e.info.ID, res.TxHash)
	}
	e.log.Debug("sent", zap.String("hash", res.TxHash))
	return e.finish(s, seq, res)
}
