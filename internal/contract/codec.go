package contract

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// Method builds the go-ethereum ABI method for d.
func Method(d *Descriptor) (abi.Method, error) {
	entry := []map[string]any{{
		"type":            "function",
		"name":            d.Name,
		"inputs":          abiParams(d.Inputs),
		"outputs":         abiParams(d.Outputs),
		"stateMutability": string(d.Mutability),
	}}
	raw, err := json.Marshal(entry)
	if err != nil {
		return abi.Method{}, err
	}
	parsed, err := abi.JSON(strings.NewReader(string(raw)))
	if err != nil {
		return abi.Method{}, fmt.Errorf("building ABI for %s: %w", d.Name, err)
	}
	m, ok := parsed.Methods[d.Name]
	if !ok {
		return abi.Method{}, fmt.Errorf("function %q not found in ABI", d.Name)
	}
	return m, nil
}

// EncodeCall builds calldata (selector + encoded arguments) for d. args are
// the values produced by Coerce, in input order.
func EncodeCall(d *Descriptor, args []any) ([]byte, error) {
	m, err := Method(d)
	if err != nil {
		return nil, err
	}
	if len(args) != len(m.Inputs) {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", d.Name, len(m.Inputs), len(args))
	}

	values := make([]any, len(args))
	for i, in := range m.Inputs {
		v, err := toABIValue(in.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("encoding param %s: %w", d.InputKey(i), err)
		}
		values[i] = v
	}

	packed, err := m.Inputs.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}
	return append(append([]byte{}, m.ID...), packed...), nil
}

// DecodeResult unpacks return data according to d.Outputs.
func DecodeResult(d *Descriptor, data []byte) ([]any, error) {
	m, err := Method(d)
	if err != nil {
		return nil, err
	}
	values, err := m.Outputs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return values, nil
}

// RenderValues formats decoded values as indented JSON. A single value is
// rendered bare; several are rendered as an array. Integers wider than 64
// bits, addresses and byte strings are rendered as strings.
func RenderValues(values []any) string {
	var v any
	if len(values) == 1 {
		v = normalize(values[0])
	} else {
		out := make([]any, len(values))
		for i, x := range values {
			out[i] = normalize(x)
		}
		v = out
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(values)
	}
	return string(data)
}

// --- argument adaptation ---

// toABIValue converts a coerced value into the exact Go type abi.Pack
// expects for t. Strings are accepted everywhere a scalar is expected, so
// array elements left as strings by Coerce still encode.
func toABIValue(t abi.Type, v any) (any, error) {
	switch t.T {
	case abi.AddressTy:
		if a, ok := v.(common.Address); ok {
			return a, nil
		}
		s, ok := asString(v)
		if !ok || !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address: %v", v)
		}
		return common.HexToAddress(s), nil

	case abi.IntTy, abi.UintTy:
		n, err := asBigInt(v)
		if err != nil {
			return nil, err
		}
		return sizedInt(t, n)

	case abi.BoolTy:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			return strings.EqualFold(b, "true"), nil
		}
		return nil, fmt.Errorf("invalid bool: %v", v)

	case abi.StringTy:
		if s, ok := asString(v); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil

	case abi.BytesTy:
		return asBytes(v)

	case abi.FixedBytesTy:
		b, err := asBytes(v)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		elems, err := asSlice(v)
		if err != nil {
			return nil, err
		}
		var out reflect.Value
		if t.T == abi.ArrayTy {
			if len(elems) != t.Size {
				return nil, fmt.Errorf("expected %d elements, got %d", t.Size, len(elems))
			}
			out = reflect.New(t.GetType()).Elem()
		} else {
			out = reflect.MakeSlice(t.GetType(), len(elems), len(elems))
		}
		for i, e := range elems {
			ev, err := toABIValue(*t.Elem, e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(ev))
		}
		return out.Interface(), nil

	case abi.TupleTy:
		return toTuple(t, v)
	}
	return v, nil
}

func toTuple(t abi.Type, v any) (any, error) {
	if s, ok := v.(string); ok {
		var decoded any
		dec := json.NewDecoder(strings.NewReader(s))
		dec.UseNumber()
		if err := dec.Decode(&decoded); err != nil {
			return nil, fmt.Errorf("invalid tuple %q: %w", s, err)
		}
		v = decoded
	}

	out := reflect.New(t.GetType()).Elem()
	for i, elem := range t.TupleElems {
		var field any
		switch x := v.(type) {
		case map[string]any:
			field = x[t.TupleRawNames[i]]
		case []any:
			if i >= len(x) {
				return nil, fmt.Errorf("tuple expects %d fields, got %d", len(t.TupleElems), len(x))
			}
			field = x[i]
		default:
			return nil, fmt.Errorf("invalid tuple value: %v", v)
		}
		fv, err := toABIValue(*elem, field)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", t.TupleRawNames[i], err)
		}
		out.Field(i).Set(reflect.ValueOf(fv))
	}
	return out.Interface(), nil
}

func sizedInt(t abi.Type, n *big.Int) (any, error) {
	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("value %s out of range for uint%d", n, t.Size)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		minV := new(big.Int).Neg(limit)
		if n.Cmp(minV) < 0 || n.Cmp(limit) >= 0 {
			return nil, fmt.Errorf("value %s out of range for int%d", n, t.Size)
		}
	}

	goType := t.GetType()
	if goType == bigIntType {
		return n, nil
	}
	out := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		out.SetUint(n.Uint64())
	} else {
		out.SetInt(n.Int64())
	}
	return out.Interface(), nil
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	}
	return "", false
}

func asBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case float64:
		if n != float64(int64(n)) {
			return nil, fmt.Errorf("invalid integer: %v", n)
		}
		return big.NewInt(int64(n)), nil
	}
	if s, ok := asString(v); ok {
		if n, ok := parseBigInt(s); ok {
			return n, nil
		}
	}
	return nil, fmt.Errorf("invalid integer: %v", v)
}

func asBytes(v any) ([]byte, error) {
	if b, ok := v.([]byte); ok {
		return b, nil
	}
	s, ok := asString(v)
	if !ok {
		return nil, fmt.Errorf("invalid bytes: %v", v)
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, fmt.Errorf("invalid hex string %q: %w", s, err)
	}
	return b, nil
}

func asSlice(v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return x, nil
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, nil
	case string:
		// Nested arrays arrive as element strings, e.g. "[1,2]".
		c, _ := Coerce(x, "array[]")
		return c.([]any), nil
	}
	return nil, fmt.Errorf("expected array, got %T", v)
}

// --- result normalization ---

func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case *big.Int:
		if x == nil {
			return nil
		}
		return x.String()
	case common.Address:
		return x.Hex()
	case common.Hash:
		return x.Hex()
	case []byte:
		return hexutil.Encode(x)
	case string, bool:
		return x
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return hexutil.Encode(b)
		}
		return normalizeList(rv)
	case reflect.Slice:
		return normalizeList(rv)
	case reflect.Struct:
		out := make(map[string]any, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			f := rv.Type().Field(i)
			name := f.Tag.Get("json")
			if name == "" {
				name = f.Name
			}
			out[name] = normalize(rv.Field(i).Interface())
		}
		return out
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	}
	return v
}

func normalizeList(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = normalize(rv.Index(i).Interface())
	}
	return out
}
