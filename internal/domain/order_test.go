package domain

import (
	"errors"
	"testing"
)

func TestSide_Opposite(t *testing.T) {
	if SideBuy.Opposite() != SideSell {
		t.Error("opposite of buy must be sell")
	}
	if SideSell.Opposite() != SideBuy {
		t.Error("opposite of sell must be buy")
	}
}

func TestNewOrder(t *testing.T) {
	order := NewOrder(OrderTypeGoodTillCancel, 42, SideBuy, 100, 10)

	if order.ID != 42 || order.Side != SideBuy || order.Price != 100 {
		t.Errorf("unexpected order fields: %+v", order)
	}
	if order.InitialQuantity != 10 || order.RemainingQuantity != 10 {
		t.Errorf("new order must start fully unfilled: %+v", order)
	}
	if order.IsFilled() {
		t.Error("new order must not be filled")
	}
	if order.FilledQuantity() != 0 {
		t.Errorf("FilledQuantity = %d, want 0", order.FilledQuantity())
	}
}

func TestOrder_Fill(t *testing.T) {
	order := NewOrder(OrderTypeGoodTillCancel, 1, SideSell, 100, 10)

	order.Fill(3)
	if order.RemainingQuantity != 7 || order.FilledQuantity() != 3 {
		t.Errorf("after Fill(3): remaining=%d filled=%d", order.RemainingQuantity, order.FilledQuantity())
	}
	if order.IsFilled() {
		t.Error("partially filled order must not report filled")
	}

	order.Fill(7)
	if !order.IsFilled() {
		t.Error("order must be filled after consuming all quantity")
	}
}

func TestOrder_FillPastRemainingPanics(t *testing.T) {
	order := NewOrder(OrderTypeGoodTillCancel, 1, SideSell, 100, 10)

	defer func() {
		if recover() == nil {
			t.Error("overfill must panic")
		}
	}()
	order.Fill(11)
}

func TestOrder_ToGoodTillCancel(t *testing.T) {
	order := NewMarketOrder(1, SideBuy, 10)

	if err := order.ToGoodTillCancel(55); err != nil {
		t.Fatalf("converting a market order: %v", err)
	}
	if order.Type != OrderTypeGoodTillCancel {
		t.Errorf("type = %s, want %s", order.Type, OrderTypeGoodTillCancel)
	}
	if order.Price != 55 {
		t.Errorf("price = %d, want 55", order.Price)
	}
}

func TestOrder_ToGoodTillCancelNonMarket(t *testing.T) {
	order := NewOrder(OrderTypeGoodTillCancel, 1, SideBuy, 100, 10)

	if err := order.ToGoodTillCancel(55); !errors.Is(err, ErrNotConvertible) {
		t.Errorf("err = %v, want %v", err, ErrNotConvertible)
	}
	if order.Price != 100 {
		t.Errorf("failed conversion must not touch the price, got %d", order.Price)
	}
}
