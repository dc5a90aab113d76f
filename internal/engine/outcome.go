package engine

import "github.com/Mohsinsiddi/txforge/internal/contract"

// Mode is an invocation mode.
type Mode string

const (
	ModeRead     Mode = "read"
	ModeSimulate Mode = "simulate"
	ModeSend     Mode = "send"
)

// AvailableModes returns the modes offered for d: read-only functions can
// only be read, state-changing ones simulated or sent.
func AvailableModes(d *contract.Descriptor) []Mode {
	switch {
	case d == nil:
		return nil
	case d.IsReadOnly():
		return []Mode{ModeRead}
	}
	return []Mode{ModeSimulate, ModeSend}
}

// Outcome is the result of one invocation: *ReadResult, *SimulationResult,
// *SendResult or *Failure.
type Outcome interface {
	outcome()
}

// ReadResult is a decoded static call. Void is set when the function
// returned nothing; Value is then "void".
type ReadResult struct {
	Value string
	Void  bool
}

// SimulationResult is a gas estimate for a state-changing call. All amounts
// are decimal strings in gas units or wei.
type SimulationResult struct {
	GasUnits           string
	GasUnitsWithBuffer string
	GasPrice           string
	TotalCost          string
	// BalanceWarning is set when the sender cannot cover TotalCost.
	BalanceWarning string
	// ReturnValue and ReturnError describe the static call made for functions
	// with outputs. At most one is set.
	ReturnValue string
	ReturnError string
}

// SendResult is a broadcast transaction.
type SendResult struct {
	TxHash      string
	ExplorerURL string
}

// Failure is a failed invocation.
type Failure struct {
	Mode    Mode
	Message string
}

func (*ReadResult) outcome()       {}
func (*SimulationResult) outcome() {}
func (*SendResult) outcome()       {}
func (*Failure) outcome()          {}

func (f *Failure) Error() string { return string(f.Mode) + " failed: " + f.Message }
