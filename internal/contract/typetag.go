package contract

import "strings"

// TypeTag is a Solidity type string as written by the user or found in an
// ABI. It is deliberately open: unknown tags are kept verbatim.
type TypeTag string

// Kind is the coercion class a TypeTag resolves to.
type Kind int

const (
	// KindOpaque covers every unrecognized tag. Values are passed through
	// untouched.
	KindOpaque Kind = iota
	KindArray
	KindInt
	KindBool
	KindBytes
	KindAddress
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	case KindAddress:
		return "address"
	case KindString:
		return "string"
	default:
		return "opaque"
	}
}

// Kind classifies the tag. Rules are ordered; the first match wins.
func (t TypeTag) Kind() Kind {
	s := string(t)
	switch {
	case strings.HasSuffix(s, "[]"):
		return KindArray
	case strings.HasPrefix(s, "uint") || strings.HasPrefix(s, "int"):
		return KindInt
	case s == "bool":
		return KindBool
	case strings.HasPrefix(s, "bytes") && !strings.Contains(s, "[]"):
		return KindBytes
	case s == "address":
		return KindAddress
	case s == "string":
		return KindString
	}
	return KindOpaque
}

// Elem returns the element type of an array tag ("address[]" -> "address").
// Non-array tags are returned unchanged.
func (t TypeTag) Elem() TypeTag {
	return TypeTag(strings.TrimSuffix(string(t), "[]"))
}

// Placeholder returns an input hint for a value of type t.
func Placeholder(t TypeTag) string {
	s := string(t)
	switch {
	case strings.Contains(s, "[]"):
		return `e.g. ["value1", "value2"] or value1, value2`
	case strings.HasPrefix(s, "address"):
		return "0x..."
	case strings.HasPrefix(s, "uint") || strings.HasPrefix(s, "int"):
		return "0"
	case s == "bool":
		return "true or false"
	case strings.HasPrefix(s, "bytes"):
		return "0x..."
	}
	return "Enter value"
}
