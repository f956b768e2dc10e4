package domain

import "fmt"

// OrderID identifies an order. IDs are assigned by the caller (the feed
// host numbers them sequentially) and must be unique for the lifetime of
// the engine instance.
type OrderID uint64

// Price is a signed price tick.
type Price int64

// Quantity is a number of units. Valid quantities are strictly positive;
// a remaining quantity of zero means the order is fully filled.
type Quantity int64

// Side indicates whether an order buys or sells.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderType selects the admission policy applied when an order is submitted.
type OrderType string

const (
	// OrderTypeGoodTillCancel rests on the book until filled or cancelled.
	OrderTypeGoodTillCancel OrderType = "good_till_cancel"
	// OrderTypeFillAndKill fills what it can immediately and never rests.
	OrderTypeFillAndKill OrderType = "fill_and_kill"
	// OrderTypeFillOrKill fills completely or is rejected with no effect.
	OrderTypeFillOrKill OrderType = "fill_or_kill"
	// OrderTypeGoodForDay rests like good-till-cancel but is swept at the
	// day boundary.
	OrderTypeGoodForDay OrderType = "good_for_day"
	// OrderTypeMarket executes against the best available opposite price
	// and never rests.
	OrderTypeMarket OrderType = "market"
)

// Order is a single instruction to buy or sell. Identity, side, type and
// price are fixed at creation (except the explicit market conversion);
// only the remaining quantity changes as the order fills.
type Order struct {
	ID                OrderID
	Type              OrderType
	Side              Side
	Price             Price // meaningless for market orders until converted
	InitialQuantity   Quantity
	RemainingQuantity Quantity
}

// NewOrder creates an order of the given type resting at price.
func NewOrder(typ OrderType, id OrderID, side Side, price Price, quantity Quantity) *Order {
	return &Order{
		ID:                id,
		Type:              typ,
		Side:              side,
		Price:             price,
		InitialQuantity:   quantity,
		RemainingQuantity: quantity,
	}
}

// NewMarketOrder creates a market order. The price field is unset until the
// engine binds it to the worst opposite price via ToGoodTillCancel.
func NewMarketOrder(id OrderID, side Side, quantity Quantity) *Order {
	return NewOrder(OrderTypeMarket, id, side, 0, quantity)
}

// IsFilled reports whether the order has no quantity left.
func (o *Order) IsFilled() bool {
	return o.RemainingQuantity == 0
}

// FilledQuantity returns how much of the order has executed so far.
func (o *Order) FilledQuantity() Quantity {
	return o.InitialQuantity - o.RemainingQuantity
}

// Fill reduces the remaining quantity by quantity. Filling past the
// remaining quantity is a contract violation and panics: it can only be
// produced by a matching bug, never by valid input.
func (o *Order) Fill(quantity Quantity) {
	if quantity > o.RemainingQuantity {
		panic(fmt.Sprintf("order %d: fill %d exceeds remaining %d", o.ID, quantity, o.RemainingQuantity))
	}
	o.RemainingQuantity -= quantity
}

// ToGoodTillCancel downgrades a market order to good-till-cancel bound to
// the given price. It is the only permitted mutation of an order's type.
func (o *Order) ToGoodTillCancel(price Price) error {
	if o.Type != OrderTypeMarket {
		return ErrNotConvertible
	}
	o.Type = OrderTypeGoodTillCancel
	o.Price = price
	return nil
}
