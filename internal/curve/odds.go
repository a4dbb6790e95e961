package curve

import "math"

const (
	minPayoutFraction = 0.5
	maxPayoutFraction = 1.0
)

// OddsDistribution is the probability and decimal-odds view of a market,
// index-aligned with the supplies it was computed from.
type OddsDistribution struct {
	Probabilities []float64 `json:"probabilities"`
	Odds          []float64 `json:"odds"`
}

// ComputeOdds converts outcome supplies into implied probabilities and odds
// net of marginFraction. Degenerate supplies fall back to a uniform
// distribution; only an empty supply slice is an error.
func (e *Engine) ComputeOdds(supplies []float64, marginFraction float64) (OddsDistribution, error) {
	n := len(supplies)
	if n == 0 {
		return OddsDistribution{}, ErrNoOutcomes
	}

	uniform := 1.0 / float64(n)
	probs := make([]float64, n)

	var total float64
	for _, s := range supplies {
		total += sanitizeSupply(s)
	}

	if total <= 0 || !isFinite(total) {
		for i := range probs {
			probs[i] = uniform
		}
	} else {
		substituted := false
		for i, s := range supplies {
			p := sanitizeSupply(s) / total
			if p <= 0 || !isFinite(p) {
				p = uniform
				substituted = true
			}
			probs[i] = p
		}
		if substituted {
			normalize(probs)
		}
	}

	payout := payoutFraction(marginFraction)
	odds := make([]float64, n)
	for i, p := range probs {
		odds[i] = clamp(payout/p, e.config.MinOdds, e.config.MaxOdds)
	}

	return OddsDistribution{Probabilities: probs, Odds: odds}, nil
}

func payoutFraction(margin float64) float64 {
	if math.IsNaN(margin) {
		margin = 0
	}
	return clamp(1-margin, minPayoutFraction, maxPayoutFraction)
}

func sanitizeSupply(s float64) float64 {
	if !isFinite(s) || s < 0 {
		return 0
	}
	return s
}

func normalize(probs []float64) {
	var sum float64
	for _, p := range probs {
		sum += p
	}
	for i := range probs {
		probs[i] /= sum
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
