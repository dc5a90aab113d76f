package chain

import (
	"context"
	"math/big"
)

// GasInfo holds current gas pricing data for a chain.
type GasInfo struct {
	GasPrice *big.Int // legacy eth_gasPrice (Wei)
	BaseFee  *big.Int // EIP-1559 base fee (Wei), nil on legacy chains
}

// GasPriceDisplay returns the best gas price for display (Gwei) and whether
// the chain supports EIP-1559.
func (g *GasInfo) GasPriceDisplay() (gwei string, isEIP1559 bool) {
	if g.BaseFee != nil && g.BaseFee.Sign() > 0 {
		return FormatGwei(g.BaseFee), true
	}
	return FormatGwei(g.GasPrice), false
}

// GasInfo fetches the gas price and, when available, the latest base fee.
// A failed base fee lookup is not an error.
func (c *EVMClient) GasInfo(ctx context.Context) (*GasInfo, error) {
	gp, err := c.GasPrice(ctx)
	if err != nil {
		return nil, err
	}
	info := &GasInfo{GasPrice: gp}
	if bf, err := c.BaseFee(ctx); err == nil {
		info.BaseFee = bf
	}
	return info, nil
}
