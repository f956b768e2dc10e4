package domain

import "time"

// TradeLeg records one side's view of a fill: the order that participated,
// its own resting price, and the quantity filled.
type TradeLeg struct {
	OrderID  OrderID
	Price    Price
	Quantity Quantity
}

// Trade is an immutable record of a single fill event between the head bid
// and head ask of the crossed levels. Each leg carries its own resting
// price; there is no single clearing price. Trades are returned to the
// caller and never retained by the engine.
type Trade struct {
	TradeID    string
	Bid        TradeLeg
	Ask        TradeLeg
	ExecutedAt time.Time
}

// Level is one aggregated price level of a depth snapshot.
type Level struct {
	Price    Price
	Quantity Quantity
}

// Depth is a point-in-time view of the book: bid levels best-first
// (descending price) and ask levels best-first (ascending price).
type Depth struct {
	Bids []Level
	Asks []Level
}
