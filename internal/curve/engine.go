// Package curve prices outcome shares on a linear bonding curve and derives
// implied probabilities and odds from outcome supplies.
//
// The marginal price of share k (zero based) is BasePrice + Slope*k, so the
// cost of a batch is the closed-form sum of an arithmetic sequence. Every
// method is a pure function of its arguments and the immutable Config; an
// Engine may be shared freely between goroutines.
package curve

import (
	"fmt"
	"math"
)

// maxShares bounds share counts converted from float input.
const maxShares = int64(1) << 53

// Quote is the result of a buy or sell request. Amount is the total cost of
// a buy or the total proceeds of a sell.
type Quote struct {
	RequestedShares int64   `json:"requested_shares"`
	ExecutedShares  int64   `json:"executed_shares"`
	Amount          float64 `json:"amount"`
	AveragePrice    float64 `json:"average_price"`
	Capped          bool    `json:"capped"`
}

// CurvePoint is one sample of the price curve.
type CurvePoint struct {
	Supply int64   `json:"supply"`
	Price  float64 `json:"price"`
}

// Engine is the bonding curve calculator.
type Engine struct {
	config Config
	slope  float64
}

// New validates cfg and returns an engine bound to a copy of it.
func New(cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = GetDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid curve configuration: %w", err)
	}
	return &Engine{config: *cfg, slope: cfg.Slope()}, nil
}

// MustNew is New for process start-up, where a bad curve is fatal.
func MustNew(cfg *Config) *Engine {
	e, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return e
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// PriceAtSupply returns the spot price of the next share. Supply is floored
// and clamped to [0, MaxSupply].
func (e *Engine) PriceAtSupply(supply float64) float64 {
	s := e.clampSupply(supply)
	return e.config.BasePrice + e.slope*float64(s)
}

// MaxBuyable is the number of shares left before the supply cap.
func (e *Engine) MaxBuyable(currentSupply float64) int64 {
	left := e.config.MaxSupply - e.clampSupply(currentSupply)
	if left < 0 {
		return 0
	}
	return left
}

// QuoteBuy prices buying requestedShares starting at currentSupply. Requests
// past the supply cap are clamped rather than rejected.
func (e *Engine) QuoteBuy(currentSupply, requestedShares float64) Quote {
	supply := e.clampSupply(currentSupply)
	requested := toShares(requestedShares)

	executed := requested
	if limit := e.MaxBuyable(float64(supply)); executed > limit {
		executed = limit
	}

	q := Quote{
		RequestedShares: requested,
		ExecutedShares:  executed,
		Capped:          executed < requested,
	}
	if executed == 0 {
		q.AveragePrice = e.PriceAtSupply(float64(supply))
		return q
	}

	q.Amount = e.batchCost(supply, executed)
	q.AveragePrice = q.Amount / float64(executed)
	return q
}

// QuoteSell prices selling requestedShares back into the curve. Proceeds are
// the cost of buying the same range, so a sell retraces the buy path exactly.
func (e *Engine) QuoteSell(currentSupply, requestedShares float64) Quote {
	supply := e.clampSupply(currentSupply)
	requested := toShares(requestedShares)

	executed := requested
	if executed > supply {
		executed = supply
	}

	q := e.QuoteBuy(float64(supply-executed), float64(executed))
	q.RequestedShares = requested
	q.Capped = executed < requested
	return q
}

// SampleCurve returns evenly spaced points over [0, MaxSupply] for charting.
func (e *Engine) SampleCurve(points int) []CurvePoint {
	if points < 2 {
		points = 2
	}
	if int64(points) > e.config.MaxSupply+1 {
		points = int(e.config.MaxSupply + 1)
	}

	out := make([]CurvePoint, points)
	step := float64(e.config.MaxSupply) / float64(points-1)
	for i := range out {
		s := int64(math.Round(step * float64(i)))
		if i == points-1 {
			s = e.config.MaxSupply
		}
		out[i] = CurvePoint{Supply: s, Price: e.PriceAtSupply(float64(s))}
	}
	return out
}

// batchCost is the exact sum of marginal prices over [supply, supply+n).
func (e *Engine) batchCost(supply, n int64) float64 {
	s := float64(supply)
	k := float64(n)
	return k*e.config.BasePrice + e.slope*(k*s+k*(k-1)/2)
}

func (e *Engine) clampSupply(supply float64) int64 {
	if math.IsNaN(supply) || supply <= 0 {
		return 0
	}
	if supply >= float64(e.config.MaxSupply) {
		return e.config.MaxSupply
	}
	return int64(math.Floor(supply))
}

func toShares(n float64) int64 {
	if math.IsNaN(n) || n <= 0 {
		return 0
	}
	if n >= float64(maxShares) {
		return maxShares
	}
	return int64(math.Floor(n))
}
