package contract

import (
	"encoding/json"
	"math/big"
	"strings"
)

// Coerce converts a raw user string into the value handed to the call
// encoder for a parameter of type t.
//
//   - arrays: a JSON array, or else comma-separated values. Elements are not
//     coerced individually; they stay strings (json.Number for JSON numbers).
//   - uint*/int*: *big.Int. An invalid literal is a *CoercionError.
//   - bool: true only for a case-insensitive "true".
//   - bytes*: 0x-prefixed.
//   - address, string and unrecognized tags: unchanged.
func Coerce(raw string, t TypeTag) (any, error) {
	switch t.Kind() {
	case KindArray:
		if arr, ok := parseJSONArray(raw); ok {
			return arr, nil
		}
		parts := strings.Split(raw, ",")
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}
		return out, nil

	case KindInt:
		n, ok := parseBigInt(raw)
		if !ok {
			return nil, &CoercionError{Type: t, Value: raw}
		}
		return n, nil

	case KindBool:
		return strings.EqualFold(raw, "true"), nil

	case KindBytes:
		if strings.HasPrefix(raw, "0x") {
			return raw, nil
		}
		return "0x" + raw, nil
	}
	return raw, nil
}

func parseJSONArray(raw string) ([]any, bool) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var arr []any
	if err := dec.Decode(&arr); err != nil || arr == nil {
		return nil, false
	}
	// Trailing garbage after the array is not a strict parse.
	if dec.More() {
		return nil, false
	}
	return arr, true
}

// parseBigInt accepts signed decimal literals and unsigned 0x/0o/0b prefixed
// ones. Leading zeros are decimal, not octal. Surrounding whitespace is
// ignored; the empty string is not a number.
func parseBigInt(raw string) (*big.Int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, false
	}
	base := 10
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			s = s[2:]
			if s[0] == '+' || s[0] == '-' {
				return nil, false
			}
		}
	}
	return new(big.Int).SetString(s, base)
}
