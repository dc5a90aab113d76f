package ui

import (
	"math/big"

	"github.com/Mohsinsiddi/txforge/internal/chain"
	"github.com/Mohsinsiddi/txforge/internal/engine"
)

// RenderOutcome formats an invocation outcome. symbol is the native
// currency of the chain the call ran on.
func RenderOutcome(o engine.Outcome, symbol string) string {
	switch o := o.(type) {
	case *engine.ReadResult:
		if o.Void {
			return KeyValueBlock("Read", [][2]string{{"Result", "(void)"}})
		}
		return StyleBorder.Render(StyleTitle.Render("Read") + "\n" + StyleSuccess.Render(o.Value))

	case *engine.SimulationResult:
		pairs := [][2]string{
			{"Gas units", o.GasUnits},
			{"With 20% buffer", o.GasUnitsWithBuffer},
			{"Gas price", weiAsGwei(o.GasPrice) + " gwei"},
			{"Total cost", weiAsEther(o.TotalCost) + " " + symbol},
		}
		if o.ReturnValue != "" {
			pairs = append(pairs, [2]string{"Would return", o.ReturnValue})
		}
		if o.ReturnError != "" {
			pairs = append(pairs, [2]string{"Return preview", "unavailable: " + o.ReturnError})
		}
		out := KeyValueBlock("Simulation", pairs)
		if o.BalanceWarning != "" {
			out += "\n" + Warn(o.BalanceWarning)
		}
		return out

	case *engine.SendResult:
		pairs := [][2]string{{"Tx hash", Addr(o.TxHash)}}
		if o.ExplorerURL != "" {
			pairs = append(pairs, [2]string{"Explorer", o.ExplorerURL})
		}
		return Success("Transaction sent") + "\n" + KeyValueBlock("", pairs)

	case *engine.Failure:
		return Err(string(o.Mode) + " failed: " + o.Message)
	}
	return Meta("Nothing to show.")
}

func weiAsGwei(s string) string {
	wei, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return s
	}
	return chain.FormatGwei(wei)
}

func weiAsEther(s string) string {
	wei, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return s
	}
	return chain.FormatEther(wei, 8)
}
