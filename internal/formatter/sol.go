package formatter

import (
	"math"

	"github.com/shopspring/decimal"
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL int64 = 1_000_000_000

// SOLDecimals is the number of decimal places a lamport amount can express.
const SOLDecimals int32 = 9

var lamportsPerSOL = decimal.NewFromInt(LamportsPerSOL)

// SOL converts a float SOL amount, as produced by the pricing engine, into a
// decimal rounded to lamport precision. Non-finite input becomes zero.
func SOL(amount float64) decimal.Decimal {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(amount).Round(SOLDecimals)
}

// ToLamports converts a SOL amount into whole lamports, rounding half away from zero.
func ToLamports(sol decimal.Decimal) int64 {
	return sol.Mul(lamportsPerSOL).Round(0).IntPart()
}

// FromLamports converts whole lamports into SOL.
func FromLamports(lamports int64) decimal.Decimal {
	return decimal.NewFromInt(lamports).Div(lamportsPerSOL)
}

// FormatSOL renders a SOL amount with fixed lamport precision, e.g. "1.049500000".
func FormatSOL(sol decimal.Decimal) string {
	return sol.StringFixed(SOLDecimals)
}

// Percent renders a probability in [0,1] as a percentage with two decimals, e.g. "33.33".
func Percent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "0.00"
	}
	return decimal.NewFromFloat(p).Mul(decimal.NewFromInt(100)).StringFixed(2)
}
