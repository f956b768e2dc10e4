// Package candle aggregates a trade stream into fixed-interval OHLC
// candles for display by the host.
package candle

import (
	"time"

	"github.com/quantora/matchbook/internal/domain"
)

// Tick is one execution observed by the aggregator.
type Tick struct {
	Time   time.Time
	Price  domain.Price
	Volume domain.Quantity
}

// Candle is the OHLC summary of one time bucket.
type Candle struct {
	Start  time.Time
	Open   domain.Price
	High   domain.Price
	Low    domain.Price
	Close  domain.Price
	Volume domain.Quantity
	Trades int
}

// Aggregator buckets incoming ticks by truncating their timestamp to the
// interval. Ticks are expected in time order; a tick belonging to an
// earlier bucket than the current one is folded into the current bucket
// rather than reopening history.
type Aggregator struct {
	interval time.Duration
	closed   []Candle
	current  *Candle
}

// NewAggregator creates an aggregator with the given bucket interval.
func NewAggregator(interval time.Duration) *Aggregator {
	return &Aggregator{interval: interval}
}

// Add folds one tick into the aggregation.
func (a *Aggregator) Add(tick Tick) {
	start := tick.Time.Truncate(a.interval)

	if a.current == nil || start.After(a.current.Start) {
		if a.current != nil {
			a.closed = append(a.closed, *a.current)
		}
		a.current = &Candle{
			Start: start,
			Open:  tick.Price,
			High:  tick.Price,
			Low:   tick.Price,
		}
	}

	a.current.Close = tick.Price
	if tick.Price > a.current.High {
		a.current.High = tick.Price
	}
	if tick.Price < a.current.Low {
		a.current.Low = tick.Price
	}
	a.current.Volume += tick.Volume
	a.current.Trades++
}

// Candles returns all buckets seen so far, including the still-open one.
func (a *Aggregator) Candles() []Candle {
	out := make([]Candle, 0, len(a.closed)+1)
	out = append(out, a.closed...)
	if a.current != nil {
		out = append(out, *a.current)
	}
	return out
}
