// internal/models/order_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusCreated, OrderStatusPaid, true},
		{OrderStatusCreated, OrderStatusCanceled, true},
		{OrderStatusCreated, OrderStatusOnWay, false},
		{OrderStatusCreated, OrderStatusDelivered, false},
		{OrderStatusPaid, OrderStatusOnWay, true},
		{OrderStatusPaid, OrderStatusCanceled, false},
		{OrderStatusPaid, OrderStatusCreated, false},
		{OrderStatusOnWay, OrderStatusDelivered, true},
		{OrderStatusOnWay, OrderStatusCanceled, false},
		{OrderStatusDelivered, OrderStatusOnWay, false},
		{OrderStatusDelivered, OrderStatusCanceled, false},
		{OrderStatusCanceled, OrderStatusPaid, false},
		{OrderStatusCanceled, OrderStatusCreated, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.False(t, OrderStatusCreated.IsTerminal())
	assert.False(t, OrderStatusPaid.IsTerminal())
	assert.False(t, OrderStatusOnWay.IsTerminal())
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCanceled.IsTerminal())
}

func TestOrderStatusIsValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusCreated, OrderStatusPaid, OrderStatusOnWay, OrderStatusDelivered, OrderStatusCanceled} {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, OrderStatus("shipped").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestBuildBasketHistory(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()

	lines := []Basket{
		{
			ProductID: productA,
			Quantity:  2,
			Product:   &Product{BaseModel: BaseModel{ID: productA}, Name: "Laptop", Price: 999.99},
		},
		{
			ProductID: productB,
			Quantity:  3,
			Product:   &Product{BaseModel: BaseModel{ID: productB}, Name: "Mouse", Price: 25},
		},
	}
	items := []OrderItem{
		{ProductID: productA, Quantity: 2, Price: 899.99},
		{ProductID: productB, Quantity: 3, Price: 25},
	}

	history := BuildBasketHistory(lines, items)

	// Captured item prices win over the current catalog price.
	assert.InDelta(t, 899.99*2+25*3, history["total_sum"], 0.001)

	purchased, ok := history["purchased_items"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, purchased, 2)

	first := purchased[0].(map[string]interface{})
	assert.Equal(t, productA.String(), first["product_id"])
	assert.Equal(t, "Laptop", first["product_name"])
	assert.Equal(t, 2, first["quantity"])
	assert.InDelta(t, 899.99, first["price"], 0.001)
	assert.InDelta(t, 1799.98, first["sum"], 0.001)
}

func TestBuildBasketHistoryFallsBackToCatalogPrice(t *testing.T) {
	productID := uuid.New()
	lines := []Basket{
		{
			ProductID: productID,
			Quantity:  1,
			Product:   &Product{BaseModel: BaseModel{ID: productID}, Name: "Book", Price: 12.5},
		},
	}

	history := BuildBasketHistory(lines, nil)
	assert.InDelta(t, 12.5, history["total_sum"], 0.001)
}

func TestSnapshotTotal(t *testing.T) {
	assert.Equal(t, 0.0, SnapshotTotal(nil))
	assert.Equal(t, 0.0, SnapshotTotal(JSONB{}))
	assert.Equal(t, 42.5, SnapshotTotal(JSONB{"total_sum": 42.5}))

	// A stored snapshot round-trips through jsonb as float64 and keeps
	// its value even if the catalog moves.
	history := BuildBasketHistory([]Basket{{
		ProductID: uuid.New(),
		Quantity:  4,
		Product:   &Product{Price: 10},
	}}, nil)
	assert.InDelta(t, 40, SnapshotTotal(history), 0.001)
}
