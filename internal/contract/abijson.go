package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// abiFunction is the JSON shape of one ABI entry. Constant and Payable are
// the pre-0.4.16 flags that predate stateMutability.
type abiFunction struct {
	Type            string  `json:"type"`
	Name            string  `json:"name"`
	Inputs          []Param `json:"inputs"`
	Outputs         []Param `json:"outputs"`
	StateMutability string  `json:"stateMutability"`
	Constant        *bool   `json:"constant,omitempty"`
	Payable         *bool   `json:"payable,omitempty"`
}

// ParseABI normalizes raw ABI JSON into a Descriptor. The input may be a
// single function object or an array; for arrays only the first element is
// used and the rest are ignored.
func ParseABI(input []byte) (*Descriptor, error) {
	invalid := parseErr(ErrInvalidJSON, "Invalid JSON. Please enter a valid function ABI.")

	trimmed := bytes.TrimSpace(input)
	var raw json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, invalid
	}

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []json.RawMessage
		if err := json.Unmarshal(trimmed, &entries); err != nil || len(entries) == 0 {
			return nil, invalid
		}
		raw = entries[0]
	}

	var fn abiFunction
	if err := json.Unmarshal(raw, &fn); err != nil {
		// Valid JSON that is not an object (a number, a string...).
		return nil, parseErr(ErrNotAFunction, ErrNotAFunction.Error())
	}
	if fn.Type != "function" {
		return nil, parseErr(ErrNotAFunction, ErrNotAFunction.Error())
	}

	mut, err := normalizeMutability(fn)
	if err != nil {
		return nil, parseErr(ErrInvalidJSON, err.Error())
	}

	d := &Descriptor{
		Name:       fn.Name,
		Inputs:     fn.Inputs,
		Outputs:    fn.Outputs,
		Mutability: mut,
	}
	if d.Inputs == nil {
		d.Inputs = []Param{}
	}
	if d.Outputs == nil {
		d.Outputs = []Param{}
	}
	return d, nil
}

func normalizeMutability(fn abiFunction) (Mutability, error) {
	if fn.StateMutability != "" {
		m := Mutability(fn.StateMutability)
		if !m.Valid() {
			return "", fmt.Errorf("unknown stateMutability %q", fn.StateMutability)
		}
		return m, nil
	}
	switch {
	case fn.Payable != nil && *fn.Payable:
		return Payable, nil
	case fn.Constant != nil && *fn.Constant:
		return View, nil
	}
	return NonPayable, nil
}
