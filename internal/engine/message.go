package engine

import "errors"

type revertReasoner interface {
	RevertReason() string
}

type shortMessager interface {
	ShortMessage() string
}

// ErrorMessage picks the most useful text for err: the contract's revert
// reason, then the node's short message, then the full error text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var rr revertReasoner
	if errors.As(err, &rr) {
		if reason := rr.RevertReason(); reason != "" {
			return reason
		}
	}
	var sm shortMessager
	if errors.As(err, &sm) {
		if msg := sm.ShortMessage(); msg != "" {
			return msg
		}
	}
	return err.Error()
}
