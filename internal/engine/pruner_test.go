package engine

import (
	"testing"
	"time"

	"github.com/quantora/matchbook/internal/domain"
)

func TestNextDayBoundary(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"before cutoff",
			time.Date(2024, 3, 14, 9, 30, 0, 0, loc),
			time.Date(2024, 3, 14, 16, 0, 0, 0, loc),
		},
		{
			"after cutoff",
			time.Date(2024, 3, 14, 17, 0, 0, 0, loc),
			time.Date(2024, 3, 15, 16, 0, 0, 0, loc),
		},
		{
			"exactly at cutoff",
			time.Date(2024, 3, 14, 16, 0, 0, 0, loc),
			time.Date(2024, 3, 15, 16, 0, 0, 0, loc),
		},
		{
			"month rollover",
			time.Date(2024, 3, 31, 23, 0, 0, 0, loc),
			time.Date(2024, 4, 1, 16, 0, 0, 0, loc),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextDayBoundary(tt.now, DefaultCutoffHour); !got.Equal(tt.want) {
				t.Errorf("nextDayBoundary(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestPruneDayOrders_RemovesOnlyGoodForDay(t *testing.T) {
	e := newTestEngine(t)

	mustSubmit := func(order *domain.Order) {
		t.Helper()
		if _, err := e.Submit(order); err != nil {
			t.Fatalf("Submit(%d): %v", order.ID, err)
		}
	}

	mustSubmit(gtc(1, domain.SideBuy, 10, 100))
	mustSubmit(domain.NewOrder(domain.OrderTypeGoodForDay, 2, domain.SideBuy, 9, 100))
	mustSubmit(domain.NewOrder(domain.OrderTypeGoodForDay, 3, domain.SideSell, 20, 50))
	mustSubmit(gtc(4, domain.SideSell, 21, 50))

	if n := e.pruneDayOrders(); n != 2 {
		t.Fatalf("pruned %d orders, want 2", n)
	}

	for _, id := range []domain.OrderID{2, 3} {
		if resting(e, id) {
			t.Errorf("good-for-day order %d must be gone after pruning", id)
		}
	}
	for _, id := range []domain.OrderID{1, 4} {
		if !resting(e, id) {
			t.Errorf("good-till-cancel order %d must survive pruning", id)
		}
	}
}

func TestPruneDayOrders_EmptyBook(t *testing.T) {
	e := newTestEngine(t)

	if n := e.pruneDayOrders(); n != 0 {
		t.Errorf("pruned %d orders on an empty book, want 0", n)
	}
}

func TestClose_StopsPrunerPromptly(t *testing.T) {
	e := New(WithClock(func() time.Time {
		// Far from the boundary so the timer never fires during the test.
		return time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	}))

	done := make(chan struct{})
	go func() {
		e.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return; pruner goroutine failed to stop")
	}
}

func TestClose_Idempotent(t *testing.T) {
	e := New()
	e.Close()
	e.Close()
}
