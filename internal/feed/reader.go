// Package feed parses line-based CSV order-event files and replays them
// into the engine. Each record is an action followed by its fields:
//
//	A,<id>,<type>,<side>,<price>,<quantity>   submit an order
//	C,<id>                                    cancel an order
//	M,<id>,<side>,<price>,<quantity>          modify an order
//
// where <type> is one of gtc, fak, fok, gfd, mkt and <side> is buy or
// sell. Market orders ignore the price field.
package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/quantora/matchbook/internal/domain"
)

// Action is the kind of book operation an event requests.
type Action string

const (
	ActionAdd    Action = "A"
	ActionCancel Action = "C"
	ActionModify Action = "M"
)

// Event is one parsed feed record.
type Event struct {
	Action   Action
	OrderID  domain.OrderID
	Type     domain.OrderType
	Side     domain.Side
	Price    domain.Price
	Quantity domain.Quantity
}

// Order builds the order an add event submits.
func (e *Event) Order() *domain.Order {
	if e.Type == domain.OrderTypeMarket {
		return domain.NewMarketOrder(e.OrderID, e.Side, e.Quantity)
	}
	return domain.NewOrder(e.Type, e.OrderID, e.Side, e.Price, e.Quantity)
}

// Reader streams events from a feed file without loading it whole.
type Reader struct {
	csv  *csv.Reader
	line int
}

// NewReader wraps r in a feed reader.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // record length depends on the action
	cr.TrimLeadingSpace = true
	return &Reader{csv: cr}
}

// Next returns the next event, io.EOF at end of input, or a parse error
// carrying the failing line number.
func (r *Reader) Next() (*Event, error) {
	record, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("feed: %w", err)
	}
	r.line++

	event, err := parseRecord(record)
	if err != nil {
		return nil, fmt.Errorf("feed: line %d: %w", r.line, err)
	}
	return event, nil
}

func parseRecord(record []string) (*Event, error) {
	if len(record) == 0 {
		return nil, fmt.Errorf("empty record")
	}

	action := Action(strings.ToUpper(strings.TrimSpace(record[0])))
	switch action {
	case ActionAdd:
		if len(record) != 6 {
			return nil, fmt.Errorf("add record needs 6 fields, got %d", len(record))
		}
		id, err := parseOrderID(record[1])
		if err != nil {
			return nil, err
		}
		orderType, err := parseOrderType(record[2])
		if err != nil {
			return nil, err
		}
		side, err := parseSide(record[3])
		if err != nil {
			return nil, err
		}
		price, err := parsePrice(record[4], orderType)
		if err != nil {
			return nil, err
		}
		quantity, err := parseQuantity(record[5])
		if err != nil {
			return nil, err
		}
		return &Event{Action: action, OrderID: id, Type: orderType, Side: side, Price: price, Quantity: quantity}, nil

	case ActionCancel:
		if len(record) != 2 {
			return nil, fmt.Errorf("cancel record needs 2 fields, got %d", len(record))
		}
		id, err := parseOrderID(record[1])
		if err != nil {
			return nil, err
		}
		return &Event{Action: action, OrderID: id}, nil

	case ActionModify:
		if len(record) != 5 {
			return nil, fmt.Errorf("modify record needs 5 fields, got %d", len(record))
		}
		id, err := parseOrderID(record[1])
		if err != nil {
			return nil, err
		}
		side, err := parseSide(record[2])
		if err != nil {
			return nil, err
		}
		price, err := parsePrice(record[3], "")
		if err != nil {
			return nil, err
		}
		quantity, err := parseQuantity(record[4])
		if err != nil {
			return nil, err
		}
		return &Event{Action: action, OrderID: id, Side: side, Price: price, Quantity: quantity}, nil

	default:
		return nil, fmt.Errorf("unknown action %q", record[0])
	}
}

func parseOrderID(s string) (domain.OrderID, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid order id %q", s)
	}
	return domain.OrderID(id), nil
}

func parseOrderType(s string) (domain.OrderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gtc":
		return domain.OrderTypeGoodTillCancel, nil
	case "fak":
		return domain.OrderTypeFillAndKill, nil
	case "fok":
		return domain.OrderTypeFillOrKill, nil
	case "gfd":
		return domain.OrderTypeGoodForDay, nil
	case "mkt":
		return domain.OrderTypeMarket, nil
	}
	return "", fmt.Errorf("unknown order type %q", s)
}

func parseSide(s string) (domain.Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return domain.SideBuy, nil
	case "sell":
		return domain.SideSell, nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

func parsePrice(s string, orderType domain.OrderType) (domain.Price, error) {
	s = strings.TrimSpace(s)
	// Market orders carry no price of their own.
	if orderType == domain.OrderTypeMarket && s == "" {
		return 0, nil
	}
	price, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	return domain.Price(price), nil
}

func parseQuantity(s string) (domain.Quantity, error) {
	quantity, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || quantity <= 0 {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return domain.Quantity(quantity), nil
}
