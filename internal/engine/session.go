package engine

import (
	"strings"
	"sync"

	"github.com/Mohsinsiddi/txforge/internal/contract"
)

// InputMode selects the parser applied to the session's source text.
type InputMode string

const (
	InputABI       InputMode = "abi"
	InputSignature InputMode = "signature"
)

// Session is the mutable state of one function being worked on: the source
// text, its parsed descriptor, the user's argument strings and the latest
// outcome. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	mode     InputMode
	source   string
	desc     *contract.Descriptor
	parseErr error
	bindings contract.Bindings
	address  string
	value    string

	// seq is the number of the latest invocation; outcome belongs to
	// outcomeSeq.
	seq        uint64
	outcome    Outcome
	outcomeSeq uint64
}

// NewSession returns an empty session using the given input mode.
func NewSession(mode InputMode) *Session {
	return &Session{mode: mode, bindings: contract.Bindings{}}
}

// snapshot is a consistent copy of the inputs an invocation needs.
type snapshot struct {
	desc     *contract.Descriptor
	bindings contract.Bindings
	address  string
	value    string
}

// Mode returns the active input mode.
func (s *Session) Mode() InputMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetInputMode switches parsers. The descriptor, parse error, bindings and
// outcome are cleared; the source text is kept but not re-parsed.
func (s *Session) SetInputMode(mode InputMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.desc = nil
	s.parseErr = nil
	s.bindings = contract.Bindings{}
	s.clearOutcome()
}

// SetSource stores text and parses it with the active parser. Any parse
// resets the bindings and clears the outcome. Blank text clears the
// descriptor without an error.
func (s *Session) SetSource(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = text
	return s.parse()
}

// Refresh re-parses the current source text. Blank text is a no-op.
func (s *Session) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(s.source) == "" {
		return nil
	}
	return s.parse()
}

func (s *Session) parse() error {
	s.desc = nil
	s.parseErr = nil
	s.bindings = contract.Bindings{}
	s.clearOutcome()

	if strings.TrimSpace(s.source) == "" {
		return nil
	}

	var (
		d   *contract.Descriptor
		err error
	)
	if s.mode == InputABI {
		d, err = contract.ParseABI([]byte(s.source))
	} else {
		d, err = contract.ParseSignature(s.source)
	}
	if err != nil {
		s.parseErr = err
		return err
	}
	s.desc = d
	s.bindings = contract.NewBindings(d)
	return nil
}

// Source returns the current source text.
func (s *Session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Descriptor returns the parsed descriptor, or nil.
func (s *Session) Descriptor() *contract.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.desc
}

// ParseError returns the error from the last parse, or nil.
func (s *Session) ParseError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parseErr
}

// SetArg binds the raw string for parameter key.
func (s *Session) SetArg(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[key] = value
}

// Bindings returns a copy of the current argument strings.
func (s *Session) Bindings() contract.Bindings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bindings.Clone()
}

// SetAddress sets the target contract address.
func (s *Session) SetAddress(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = strings.TrimSpace(addr)
}

// Address returns the target contract address.
func (s *Session) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}

// SetValue sets the native amount to attach, as a decimal string ("0.01").
func (s *Session) SetValue(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = strings.TrimSpace(v)
}

// Value returns the native amount string.
func (s *Session) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Clear resets the source, descriptor, parse error, bindings and outcome.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = ""
	s.desc = nil
	s.parseErr = nil
	s.bindings = contract.Bindings{}
	s.clearOutcome()
}

// ClearParameters resets the address, value, argument strings and outcome,
// keeping the descriptor.
func (s *Session) ClearParameters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = ""
	s.value = ""
	s.bindings = contract.NewBindings(s.desc)
	s.clearOutcome()
}

// ResetArgs empties every argument string and clears the outcome.
func (s *Session) ResetArgs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings = contract.NewBindings(s.desc)
	s.clearOutcome()
}

// Outcome returns the latest committed outcome and the number of the
// invocation that produced it. The outcome is nil while an invocation is in
// flight or after a reset.
func (s *Session) Outcome() (Outcome, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome, s.outcomeSeq
}

func (s *Session) clearOutcome() {
	// Bumping seq also orphans any invocation still in flight.
	s.seq++
	s.outcome = nil
	s.outcomeSeq = 0
}

// start snapshots the inputs and, if ready accepts them, begins a new
// invocation: the outcome is cleared and a fresh sequence number returned.
// When ready rejects the snapshot nothing changes.
func (s *Session) start(ready func(snapshot) bool) (snapshot, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in := snapshot{
		desc:     s.desc,
		bindings: s.bindings.Clone(),
		address:  s.address,
		value:    s.value,
	}
	if !ready(in) {
		return snapshot{}, 0, false
	}
	s.clearOutcome()
	return in, s.seq, true
}

// commit stores o if seq is still the latest invocation. Outcomes of
// superseded invocations are dropped.
func (s *Session) commit(seq uint64, o Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.outcome = o
	s.outcomeSeq = seq
	return true
}
