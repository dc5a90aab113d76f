package chain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	etherDecimals = 18
	gweiDecimals  = 9
)

// ParseEther converts a decimal amount of native currency ("0.5") to wei.
// Negative amounts and amounts finer than one wei are rejected.
func ParseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return nil, errors.New("amount must not be negative")
	}
	wei := d.Shift(etherDecimals)
	if !wei.IsInteger() {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", s, etherDecimals)
	}
	return wei.BigInt(), nil
}

// FormatEther renders wei as native currency with the given decimal places.
func FormatEther(wei *big.Int, places int32) string {
	if wei == nil {
		wei = new(big.Int)
	}
	return decimal.NewFromBigInt(wei, -etherDecimals).StringFixed(places)
}

// WeiToETH renders wei with full 18-decimal precision.
func WeiToETH(wei *big.Int) string {
	return FormatEther(wei, etherDecimals)
}

// FormatGwei renders wei as gwei with two decimals.
func FormatGwei(wei *big.Int) string {
	if wei == nil {
		wei = new(big.Int)
	}
	return decimal.NewFromBigInt(wei, -gweiDecimals).StringFixed(2)
}

// WeiToGwei converts a Wei value to Gwei as float64.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := decimal.NewFromBigInt(wei, -gweiDecimals).Float64()
	return f
}
