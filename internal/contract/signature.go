package contract

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	sigNameRe    = regexp.MustCompile(`^(\w+)\s*\(`)
	sigParamsRe  = regexp.MustCompile(`\(([^)]*)\)`)
	sigReturnsRe = regexp.MustCompile(`(?i)returns\s*\(([^)]*)\)`)
)

// Data-location and event keywords that may trail a type but are never a
// parameter name.
var reservedNames = map[string]bool{
	"indexed":  true,
	"memory":   true,
	"calldata": true,
	"storage":  true,
}

// ParseSignature parses a human-written function signature such as
//
//	function transfer(address to, uint256 amount) returns (bool)
//	balanceOf(address) view returns (uint256)
//
// into a Descriptor. Only a practical subset of Solidity is understood:
// parameter lists are split on commas without nesting, so tuple types are
// not supported here (use ABI JSON for those).
func ParseSignature(input string) (*Descriptor, error) {
	clean := strings.TrimSpace(input)
	if hasKeywordPrefix(clean, "function") {
		clean = strings.TrimSpace(clean[len("function"):])
	}

	m := sigNameRe.FindStringSubmatch(clean)
	if m == nil {
		return nil, parseErr(ErrMissingName,
			"Could not parse function name. Format: functionName(type1 name1, type2 name2)")
	}
	name := m[1]

	pm := sigParamsRe.FindStringSubmatch(clean)
	if pm == nil {
		return nil, parseErr(ErrMissingParams,
			"Could not parse parameters. Use format: (type1 name1, type2 name2)")
	}

	d := &Descriptor{
		Name:       name,
		Inputs:     splitParams(pm[1], true),
		Outputs:    []Param{},
		Mutability: detectMutability(clean),
	}
	if rm := sigReturnsRe.FindStringSubmatch(clean); rm != nil {
		d.Outputs = splitParams(rm[1], false)
	}
	return d, nil
}

// splitParams splits a parenthesized parameter list body. With synthesize set
// (inputs) a missing or reserved name becomes "arg{i}"; otherwise it stays
// empty, since outputs are display-only.
func splitParams(body string, synthesize bool) []Param {
	params := []Param{}
	var segments []string
	for _, s := range strings.Split(body, ",") {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}
	for i, seg := range segments {
		parts := strings.Fields(seg)
		if len(parts) == 0 {
			continue
		}
		typ := parts[0]
		name := ""
		if len(parts) > 1 {
			name = parts[len(parts)-1]
		}
		if reservedNames[strings.ToLower(name)] {
			name = ""
		}
		if name == "" && synthesize {
			name = fmt.Sprintf("arg%d", i)
		}
		params = append(params, Param{Name: name, Type: typ, InternalType: typ})
	}
	return params
}

// detectMutability sniffs mutability keywords by substring. " payable" is
// ignored when "nonpayable" appears anywhere, so that an explicit
// nonpayable annotation is never misread.
func detectMutability(sig string) Mutability {
	lower := strings.ToLower(sig)
	switch {
	case strings.Contains(lower, " view"):
		return View
	case strings.Contains(lower, " pure"):
		return Pure
	case strings.Contains(lower, " payable") && !strings.Contains(lower, "nonpayable"):
		return Payable
	}
	return NonPayable
}

func hasKeywordPrefix(s, kw string) bool {
	if len(s) <= len(kw) || !strings.EqualFold(s[:len(kw)], kw) {
		return false
	}
	switch s[len(kw)] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
