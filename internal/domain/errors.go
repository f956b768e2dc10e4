package domain

import "errors"

// Sentinel errors for rejected admissions. A rejection means no trades and
// no book mutation; callers distinguish outcomes with errors.Is. Cancelling
// or modifying an unknown order is a silent no-op, not an error.
var (
	ErrDuplicateOrderID = errors.New("duplicate_order_id")
	ErrNoLiquidity      = errors.New("no_liquidity")
	ErrNotMatchable     = errors.New("not_matchable")
	ErrNotFullyFillable = errors.New("not_fully_fillable")
	ErrUnsupportedType  = errors.New("unsupported_order_type")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrNotConvertible   = errors.New("order_not_convertible")
)
