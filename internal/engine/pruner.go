package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/quantora/matchbook/internal/domain"
)

// DefaultCutoffHour is the local hour at which good-for-day orders expire.
const DefaultCutoffHour = 16

// pruneLoop sleeps until the next day boundary and sweeps good-for-day
// orders, repeating until the stop channel closes. The timer select keeps
// the sleep interruptible: shutdown is signal, wake, join — never a fixed
// delay.
func (e *Engine) pruneLoop() {
	defer close(e.doneCh)

	for {
		now := e.now()
		boundary := nextDayBoundary(now, e.cutoffHour)
		timer := time.NewTimer(boundary.Sub(now))

		select {
		case <-e.stopCh:
			timer.Stop()
			e.logger.Info("pruner stopped")
			return
		case <-timer.C:
		}

		if n := e.pruneDayOrders(); n > 0 {
			e.logger.Info("good-for-day orders pruned",
				zap.Int("count", n),
				zap.Time("boundary", boundary),
			)
		}
	}
}

// pruneDayOrders scans the registry for good-for-day orders and cancels
// them as one batch under the same exclusion as client cancels. It returns
// the number of orders removed.
func (e *Engine) pruneDayOrders() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	var ids []domain.OrderID
	for id, entry := range e.book.orders {
		if entry.order.Type == domain.OrderTypeGoodForDay {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		e.book.remove(id)
	}
	return len(ids)
}

// nextDayBoundary returns the next instant the cutoff hour is reached: the
// boundary today if it is still ahead, otherwise the same hour tomorrow.
func nextDayBoundary(now time.Time, cutoffHour int) time.Time {
	boundary := time.Date(now.Year(), now.Month(), now.Day(), cutoffHour, 0, 0, 0, now.Location())
	if !now.Before(boundary) {
		boundary = boundary.AddDate(0, 0, 1)
	}
	return boundary
}
