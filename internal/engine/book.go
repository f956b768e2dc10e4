package engine

import (
	"container/list"
	"fmt"

	"github.com/google/btree"

	"github.com/quantora/matchbook/internal/domain"
)

// bookLevel is a single price level: the price and the FIFO queue of orders
// resting at it, oldest first. A level exists only while it has orders.
type bookLevel struct {
	price  domain.Price
	orders *list.List // of *domain.Order
}

func (l *bookLevel) head() *domain.Order {
	return l.orders.Front().Value.(*domain.Order)
}

// bidLevelLess orders the bid side price-descending so Min() is the best bid.
func bidLevelLess(a, b *bookLevel) bool {
	return a.price > b.price
}

// askLevelLess orders the ask side price-ascending so Min() is the best ask.
func askLevelLess(a, b *bookLevel) bool {
	return a.price < b.price
}

// orderEntry locates a resting order: the order itself, the level it rests
// on, and its queue element, which stays valid across unrelated insertions
// and removals and makes cancellation O(1).
type orderEntry struct {
	order *domain.Order
	level *bookLevel
	elem  *list.Element
}

// levelData is the per-price running aggregate across both sides, kept in
// sync incrementally and consumed by the fill-or-kill liquidity walk and
// by depth snapshots.
type levelData struct {
	quantity domain.Quantity
	count    int
}

// levelAction selects how an aggregate entry is adjusted. The three actions
// are distinct: add counts a new order, remove drops both the order count
// and its outstanding quantity, match reduces quantity only.
type levelAction int

const (
	levelActionAdd levelAction = iota
	levelActionRemove
	levelActionMatch
)

// book holds the three core structures of the engine: the sorted price-level
// index per side, the order registry, and the level aggregates. The book has
// no locking of its own; the owning Engine serializes every access.
type book struct {
	bids   *btree.BTreeG[*bookLevel]
	asks   *btree.BTreeG[*bookLevel]
	orders map[domain.OrderID]*orderEntry
	levels map[domain.Price]*levelData
}

func newBook() *book {
	const degree = 32
	return &book{
		bids:   btree.NewG[*bookLevel](degree, bidLevelLess),
		asks:   btree.NewG[*bookLevel](degree, askLevelLess),
		orders: make(map[domain.OrderID]*orderEntry),
		levels: make(map[domain.Price]*levelData),
	}
}

func (b *book) tree(side domain.Side) *btree.BTreeG[*bookLevel] {
	if side == domain.SideBuy {
		return b.bids
	}
	return b.asks
}

// insert appends the order to the tail of its price level's queue, creating
// the level on first use, and records it in the registry and aggregates.
func (b *book) insert(order *domain.Order) {
	tree := b.tree(order.Side)
	lvl, ok := tree.Get(&bookLevel{price: order.Price})
	if !ok {
		lvl = &bookLevel{price: order.Price, orders: list.New()}
		tree.ReplaceOrInsert(lvl)
	}
	elem := lvl.orders.PushBack(order)
	b.orders[order.ID] = &orderEntry{order: order, level: lvl, elem: elem}
	b.updateLevel(order.Price, order.RemainingQuantity, levelActionAdd)
}

// remove takes the order out of its level queue, the registry, and the
// aggregates, destroying the level if it is now empty. Unknown ids are a
// no-op and return nil.
func (b *book) remove(id domain.OrderID) *domain.Order {
	entry, ok := b.orders[id]
	if !ok {
		return nil
	}
	delete(b.orders, id)
	entry.level.orders.Remove(entry.elem)
	if entry.level.orders.Len() == 0 {
		b.tree(entry.order.Side).Delete(entry.level)
	}
	b.updateLevel(entry.order.Price, entry.order.RemainingQuantity, levelActionRemove)
	return entry.order
}

// onMatched settles the book state after order was filled by quantity:
// a fully filled order leaves its queue, the registry, and the level;
// a partial fill only reduces the level aggregate.
func (b *book) onMatched(order *domain.Order, quantity domain.Quantity) {
	if !order.IsFilled() {
		b.updateLevel(order.Price, quantity, levelActionMatch)
		return
	}
	entry, ok := b.orders[order.ID]
	if !ok {
		panic(fmt.Sprintf("order %d matched but not registered", order.ID))
	}
	delete(b.orders, order.ID)
	entry.level.orders.Remove(entry.elem)
	if entry.level.orders.Len() == 0 {
		b.tree(order.Side).Delete(entry.level)
	}
	b.updateLevel(order.Price, quantity, levelActionRemove)
}

// updateLevel applies one aggregate action at price. A remove or match
// against a missing entry means the aggregates and the index diverged,
// which is unrecoverable.
func (b *book) updateLevel(price domain.Price, quantity domain.Quantity, action levelAction) {
	data, ok := b.levels[price]
	switch action {
	case levelActionAdd:
		if !ok {
			data = &levelData{}
			b.levels[price] = data
		}
		data.count++
		data.quantity += quantity
	case levelActionRemove:
		if !ok {
			panic(fmt.Sprintf("level %d: remove without aggregate entry", price))
		}
		data.count--
		data.quantity -= quantity
	case levelActionMatch:
		if !ok {
			panic(fmt.Sprintf("level %d: match without aggregate entry", price))
		}
		data.quantity -= quantity
	default:
		panic(fmt.Sprintf("level %d: unknown aggregate action %d", price, action))
	}
	if data.count == 0 {
		delete(b.levels, price)
	}
}

// bestLevel returns the best price level of the given side, if any.
func (b *book) bestLevel(side domain.Side) (*bookLevel, bool) {
	return b.tree(side).Min()
}

// worstPrice returns the furthest resting price on the given side; it is
// the price a market order binds to so it can cross the whole side.
func (b *book) worstPrice(side domain.Side) (domain.Price, bool) {
	lvl, ok := b.tree(side).Max()
	if !ok {
		return 0, false
	}
	return lvl.price, true
}

// canMatch reports whether an order on side at price could trade against
// the current best of the opposite side.
func (b *book) canMatch(side domain.Side, price domain.Price) bool {
	best, ok := b.bestLevel(side.Opposite())
	if !ok {
		return false
	}
	if side == domain.SideBuy {
		return price >= best.price
	}
	return price <= best.price
}

// canFullyFill walks the opposite side from the best price toward the
// order's limit, accumulating aggregate level quantity, and reports whether
// the requested quantity is reachable before the walk passes the limit or
// exhausts the side.
func (b *book) canFullyFill(side domain.Side, price domain.Price, quantity domain.Quantity) bool {
	if !b.canMatch(side, price) {
		return false
	}
	remaining := quantity
	b.tree(side.Opposite()).Ascend(func(lvl *bookLevel) bool {
		if side == domain.SideBuy && lvl.price > price {
			return false
		}
		if side == domain.SideSell && lvl.price < price {
			return false
		}
		data, ok := b.levels[lvl.price]
		if !ok {
			panic(fmt.Sprintf("level %d: indexed but no aggregate entry", lvl.price))
		}
		remaining -= data.quantity
		return remaining > 0
	})
	return remaining <= 0
}

// depth snapshots both sides best-first using the level aggregates.
func (b *book) depth() domain.Depth {
	collect := func(tree *btree.BTreeG[*bookLevel]) []domain.Level {
		out := make([]domain.Level, 0, tree.Len())
		tree.Ascend(func(lvl *bookLevel) bool {
			data, ok := b.levels[lvl.price]
			if !ok {
				panic(fmt.Sprintf("level %d: indexed but no aggregate entry", lvl.price))
			}
			out = append(out, domain.Level{Price: lvl.price, Quantity: data.quantity})
			return true
		})
		return out
	}
	return domain.Depth{Bids: collect(b.bids), Asks: collect(b.asks)}
}

func (b *book) size() int {
	return len(b.orders)
}
