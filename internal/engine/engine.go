package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quantora/matchbook/internal/domain"
)

// Engine is a single-instrument limit-order matching engine. It owns the
// price-level index, the order registry, and the level aggregates, and is
// the only writer to them: every operation, including the day-boundary
// pruner's sweep, runs under the engine mutex so the three structures are
// never observed mutually inconsistent.
//
// Close must be called to stop the pruner goroutine; it signals the stop
// channel, wakes the sleeper, and waits for it to exit.
type Engine struct {
	mu   sync.Mutex
	book *book

	logger     *zap.Logger
	now        func() time.Time
	cutoffHour int

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates an engine and starts its day-boundary pruner.
func New(opts ...Option) *Engine {
	e := &Engine{
		book:       newBook(),
		logger:     zap.NewNop(),
		now:        time.Now,
		cutoffHour: DefaultCutoffHour,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	go e.pruneLoop()
	return e
}

// Close stops the pruner and waits for it to finish. It is safe to call
// more than once.
func (e *Engine) Close() {
	e.stopOnce.Do(func() {
		close(e.stopCh)
	})
	<-e.doneCh
}

// Submit runs the order through its type's admission policy and, if
// admitted, the crossing loop. It returns the trades produced by the call.
// Rejections (duplicate id, unmatchable fill-and-kill, unfillable
// fill-or-kill, market with an empty opposite side, unsupported type)
// leave the book untouched and are reported as sentinel errors from the
// domain package.
func (e *Engine) Submit(order *domain.Order) ([]domain.Trade, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitLocked(order)
}

func (e *Engine) submitLocked(order *domain.Order) ([]domain.Trade, error) {
	if order.InitialQuantity <= 0 || order.RemainingQuantity != order.InitialQuantity {
		return nil, domain.ErrInvalidQuantity
	}
	if _, exists := e.book.orders[order.ID]; exists {
		return nil, domain.ErrDuplicateOrderID
	}

	// Orders that may never rest on the book have their remainder
	// cancelled after the crossing loop.
	killRemainder := false

	switch order.Type {
	case domain.OrderTypeGoodTillCancel, domain.OrderTypeGoodForDay:
		// Inserted unconditionally.
	case domain.OrderTypeFillAndKill:
		if !e.book.canMatch(order.Side, order.Price) {
			return nil, domain.ErrNotMatchable
		}
		killRemainder = true
	case domain.OrderTypeFillOrKill:
		if !e.book.canFullyFill(order.Side, order.Price, order.InitialQuantity) {
			return nil, domain.ErrNotFullyFillable
		}
	case domain.OrderTypeMarket:
		// Bind to the worst opposite price so the order crosses the whole
		// side; an unfilled remainder is cancelled, never rested.
		worst, ok := e.book.worstPrice(order.Side.Opposite())
		if !ok {
			return nil, domain.ErrNoLiquidity
		}
		if err := order.ToGoodTillCancel(worst); err != nil {
			return nil, err
		}
		killRemainder = true
	default:
		return nil, domain.ErrUnsupportedType
	}

	e.book.insert(order)
	trades := e.matchLocked()
	if killRemainder {
		e.book.remove(order.ID)
	}
	return trades, nil
}

// matchLocked is the crossing loop: while the best bid price is at least
// the best ask price, the heads of the two best levels fill each other by
// the smaller remaining quantity. Each fill event produces one trade whose
// legs carry each side's own resting price. Fully filled orders leave the
// book immediately, and emptied levels are destroyed, so the loop always
// re-reads the current best levels.
func (e *Engine) matchLocked() []domain.Trade {
	var trades []domain.Trade

	for {
		bidLevel, ok := e.book.bestLevel(domain.SideBuy)
		if !ok {
			break
		}
		askLevel, ok := e.book.bestLevel(domain.SideSell)
		if !ok {
			break
		}
		if bidLevel.price < askLevel.price {
			break
		}

		bid := bidLevel.head()
		ask := askLevel.head()
		quantity := min(bid.RemainingQuantity, ask.RemainingQuantity)

		bid.Fill(quantity)
		ask.Fill(quantity)
		e.book.onMatched(bid, quantity)
		e.book.onMatched(ask, quantity)

		trades = append(trades, domain.Trade{
			TradeID:    uuid.NewString(),
			Bid:        domain.TradeLeg{OrderID: bid.ID, Price: bid.Price, Quantity: quantity},
			Ask:        domain.TradeLeg{OrderID: ask.ID, Price: ask.Price, Quantity: quantity},
			ExecutedAt: e.now(),
		})
	}

	// A fill-and-kill order left at the head of either side got no further
	// match and must not rest.
	for _, side := range []domain.Side{domain.SideBuy, domain.SideSell} {
		if lvl, ok := e.book.bestLevel(side); ok {
			if head := lvl.head(); head.Type == domain.OrderTypeFillAndKill {
				e.book.remove(head.ID)
			}
		}
	}

	return trades
}

// Cancel removes a resting order. Unknown ids are a no-op, so cancelling
// twice is safe.
func (e *Engine) Cancel(id domain.OrderID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.book.remove(id)
}

// CancelMany cancels each id as one atomic batch with respect to
// concurrent submitters.
func (e *Engine) CancelMany(ids []domain.OrderID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, id := range ids {
		e.book.remove(id)
	}
}

// Modify replaces a resting order with a new one carrying the original
// type and the supplied side, price, and quantity under the same id. It is
// cancel-then-submit, so the order loses its time priority and joins the
// tail of its new price queue. Unknown ids are a no-op with an empty
// result.
func (e *Engine) Modify(id domain.OrderID, side domain.Side, price domain.Price, quantity domain.Quantity) ([]domain.Trade, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.book.orders[id]
	if !ok {
		return nil, nil
	}
	orderType := entry.order.Type
	e.book.remove(id)
	return e.submitLocked(domain.NewOrder(orderType, id, side, price, quantity))
}

// Depth returns a snapshot of the aggregated book: bid and ask levels
// best-first with their outstanding quantities.
func (e *Engine) Depth() domain.Depth {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.depth()
}

// Size returns the number of currently resting orders.
func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.size()
}
