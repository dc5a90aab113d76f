package engine

import (
	"context"

	"github.com/ethereum/go-ethereum"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/txforge/internal/contract"
)

// Read performs a static call of a view/pure function and decodes the
// result. It returns nil without doing anything when there is no chain
// client, no read-only descriptor or no contract address.
func (e *Engine) Read(ctx context.Context, s *Session) Outcome {
	in, seq, ok := s.start(func(in snapshot) bool {
		return e.chain != nil && in.desc != nil && in.desc.IsReadOnly() && in.address != ""
	})
	if !ok {
		return nil
	}

	ci, err := intent(in, false)
	if err != nil {
		return e.fail(s, seq, ModeRead, err.Error())
	}
	e.log.Debug("read",
		zap.String("function", in.desc.Signature()),
		zap.Stringer("to", ci.To),
		zap.Uint64("seq", seq))

	out, err := e.chain.Call(ctx, ethereum.CallMsg{To: &ci.To, Data: ci.Data})
	if err != nil {
		return e.fail(s, seq, ModeRead, ErrorMessage(err))
	}

	if len(out) == 0 || !in.desc.HasOutputs() {
		return e.finish(s, seq, &ReadResult{Value: "void", Void: true})
	}
	values, err := contract.DecodeResult(in.desc, out)
	if err != nil {
		return e.fail(s, seq, ModeRead, err.Error())
	}
	return e.finish(s, seq, &ReadResult{Value: contract.RenderValues(values)})
}
