package feed

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantora/matchbook/internal/domain"
)

func TestReader_AddRecord(t *testing.T) {
	r := NewReader(strings.NewReader("A,1,gtc,buy,100,25\n"))

	event, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, ActionAdd, event.Action)
	assert.Equal(t, domain.OrderID(1), event.OrderID)
	assert.Equal(t, domain.OrderTypeGoodTillCancel, event.Type)
	assert.Equal(t, domain.SideBuy, event.Side)
	assert.Equal(t, domain.Price(100), event.Price)
	assert.Equal(t, domain.Quantity(25), event.Quantity)

	order := event.Order()
	assert.Equal(t, domain.OrderTypeGoodTillCancel, order.Type)
	assert.Equal(t, domain.Quantity(25), order.RemainingQuantity)
}

func TestReader_OrderTypes(t *testing.T) {
	tests := []struct {
		token string
		want  domain.OrderType
	}{
		{"gtc", domain.OrderTypeGoodTillCancel},
		{"fak", domain.OrderTypeFillAndKill},
		{"fok", domain.OrderTypeFillOrKill},
		{"gfd", domain.OrderTypeGoodForDay},
		{"mkt", domain.OrderTypeMarket},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			r := NewReader(strings.NewReader("A,1," + tt.token + ",sell,100,10\n"))

			event, err := r.Next()
			require.NoError(t, err)
			assert.Equal(t, tt.want, event.Type)
		})
	}
}

func TestReader_MarketOrderEmptyPrice(t *testing.T) {
	r := NewReader(strings.NewReader("A,7,mkt,sell,,40\n"))

	event, err := r.Next()
	require.NoError(t, err)

	order := event.Order()
	assert.Equal(t, domain.OrderTypeMarket, order.Type)
	assert.Equal(t, domain.Quantity(40), order.RemainingQuantity)
}

func TestReader_CancelRecord(t *testing.T) {
	r := NewReader(strings.NewReader("C,12\n"))

	event, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, ActionCancel, event.Action)
	assert.Equal(t, domain.OrderID(12), event.OrderID)
}

func TestReader_ModifyRecord(t *testing.T) {
	r := NewReader(strings.NewReader("M,3,sell,105,50\n"))

	event, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, ActionModify, event.Action)
	assert.Equal(t, domain.OrderID(3), event.OrderID)
	assert.Equal(t, domain.SideSell, event.Side)
	assert.Equal(t, domain.Price(105), event.Price)
	assert.Equal(t, domain.Quantity(50), event.Quantity)
}

func TestReader_StreamsUntilEOF(t *testing.T) {
	input := "A,1,gtc,buy,100,25\nA,2,gtc,sell,101,25\nC,1\n"
	r := NewReader(strings.NewReader(input))

	var actions []Action
	for {
		event, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		actions = append(actions, event.Action)
	}
	assert.Equal(t, []Action{ActionAdd, ActionAdd, ActionCancel}, actions)
}

func TestReader_ParseErrorsCarryLineNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown action", "X,1\n"},
		{"add too few fields", "A,1,gtc,buy,100\n"},
		{"bad order type", "A,1,stop,buy,100,25\n"},
		{"bad side", "A,1,gtc,left,100,25\n"},
		{"bad price", "A,1,gtc,buy,abc,25\n"},
		{"zero quantity", "A,1,gtc,buy,100,0\n"},
		{"empty limit price", "A,1,gtc,buy,,25\n"},
		{"cancel extra fields", "C,1,buy\n"},
		{"modify too few fields", "M,1,buy,100\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader("A,1,gtc,buy,100,25\n" + tt.input))

			_, err := r.Next()
			require.NoError(t, err)

			_, err = r.Next()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}
