package chain

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

const revertPrefix = "execution reverted"

// CallError is a failed JSON-RPC request. Error returns the raw node message.
type CallError struct {
	Method string
	Err    error
	// Data is the revert payload attached to the error, if any.
	Data []byte
}

func wrapErr(method string, err error) error {
	ce := &CallError{Method: method, Err: err}
	var de rpc.DataError
	if errors.As(err, &de) {
		if s, ok := de.ErrorData().(string); ok {
			if b, err := hexutil.Decode(s); err == nil {
				ce.Data = b
			}
		}
	}
	return ce
}

func (e *CallError) Error() string { return e.Err.Error() }

func (e *CallError) Unwrap() error { return e.Err }

// RevertReason returns the contract's revert reason, or "" when none is
// available. Error(string) payloads are decoded first; otherwise the
// "execution reverted: <reason>" message form is parsed.
func (e *CallError) RevertReason() string {
	if len(e.Data) > 0 {
		if reason, err := abi.UnpackRevert(e.Data); err == nil {
			return reason
		}
	}
	return reasonFromMessage(e.Err.Error())
}

// ShortMessage returns the first line of the node message.
func (e *CallError) ShortMessage() string {
	msg := e.Err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return strings.TrimSpace(msg)
}

func reasonFromMessage(msg string) string {
	idx := strings.Index(msg, revertPrefix+":")
	if idx < 0 {
		return ""
	}
	reason := msg[idx+len(revertPrefix)+1:]
	if i := strings.IndexByte(reason, '\n'); i >= 0 {
		reason = reason[:i]
	}
	return strings.TrimSpace(reason)
}
