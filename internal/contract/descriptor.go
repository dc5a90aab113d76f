package contract

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Mutability is the state-mutability class of a contract function.
type Mutability string

const (
	Pure       Mutability = "pure"
	View       Mutability = "view"
	NonPayable Mutability = "nonpayable"
	Payable    Mutability = "payable"
)

// Valid reports whether m is one of the four known classes.
func (m Mutability) Valid() bool {
	switch m {
	case Pure, View, NonPayable, Payable:
		return true
	}
	return false
}

// Param is one input or output parameter of a function.
type Param struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	InternalType string  `json:"internalType,omitempty"`
	Components   []Param `json:"components,omitempty"`
}

// Tag returns the parameter's type tag.
func (p Param) Tag() TypeTag { return TypeTag(p.Type) }

// Descriptor is the canonical in-memory description of one contract function.
type Descriptor struct {
	Name       string     `json:"name"`
	Inputs     []Param    `json:"inputs"`
	Outputs    []Param    `json:"outputs"`
	Mutability Mutability `json:"stateMutability"`
}

// IsReadOnly returns true for view and pure functions. Read-only functions
// never need a wallet, gas or a native value.
func (d *Descriptor) IsReadOnly() bool {
	return d.Mutability == View || d.Mutability == Pure
}

// IsPayable returns true when the function accepts a native value.
func (d *Descriptor) IsPayable() bool {
	return d.Mutability == Payable
}

// HasOutputs returns true if the function declares at least one return value.
func (d *Descriptor) HasOutputs() bool {
	return len(d.Outputs) > 0
}

// Signature returns the canonical signature, e.g. "transfer(address,uint256)".
func (d *Descriptor) Signature() string {
	types := make([]string, len(d.Inputs))
	for i, p := range d.Inputs {
		types[i] = canonicalType(p)
	}
	return d.Name + "(" + strings.Join(types, ",") + ")"
}

// Selector computes the 4-byte function selector as 0x-prefixed hex.
func (d *Descriptor) Selector() string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(d.Signature()))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}

// InputKey returns the binding key for the input at index i: its declared
// name, or "arg{i}" when the name is empty.
func (d *Descriptor) InputKey(i int) string {
	if name := d.Inputs[i].Name; name != "" {
		return name
	}
	return fmt.Sprintf("arg%d", i)
}

// String renders the descriptor in human-readable signature form.
func (d *Descriptor) String() string {
	var sb strings.Builder
	sb.WriteString("function ")
	sb.WriteString(d.Name)
	sb.WriteString("(")
	sb.WriteString(joinParams(d.Inputs))
	sb.WriteString(")")
	if d.Mutability != NonPayable && d.Mutability != "" {
		sb.WriteString(" ")
		sb.WriteString(string(d.Mutability))
	}
	if d.HasOutputs() {
		sb.WriteString(" returns (")
		sb.WriteString(joinParams(d.Outputs))
		sb.WriteString(")")
	}
	return sb.String()
}

func joinParams(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.Name != "" {
			parts[i] = p.Type + " " + p.Name
		} else {
			parts[i] = p.Type
		}
	}
	return strings.Join(parts, ", ")
}

// canonicalType expands tuple types into their component list, as required
// for selector hashing: "tuple[]" -> "(address,uint256)[]".
func canonicalType(p Param) string {
	if !strings.HasPrefix(p.Type, "tuple") {
		return elementaryType(p.Type)
	}
	inner := make([]string, len(p.Components))
	for i, c := range p.Components {
		inner[i] = canonicalType(c)
	}
	return "(" + strings.Join(inner, ",") + ")" + strings.TrimPrefix(p.Type, "tuple")
}

// elementaryType expands the uint and int aliases to uint256 and int256,
// array suffixes included ("uint[]" -> "uint256[]").
func elementaryType(t string) string {
	for _, base := range []string{"uint", "int"} {
		rest, ok := strings.CutPrefix(t, base)
		if ok && (rest == "" || strings.HasPrefix(rest, "[")) {
			return base + "256" + rest
		}
	}
	return t
}

// abiParams returns a copy of ps with aliased types expanded, as the ABI
// loader requires.
func abiParams(ps []Param) []Param {
	out := make([]Param, len(ps))
	for i, p := range ps {
		p.Type = elementaryType(p.Type)
		p.Components = abiParams(p.Components)
		out[i] = p
	}
	return out
}
