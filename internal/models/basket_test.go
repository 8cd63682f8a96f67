// internal/models/basket_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasketSum(t *testing.T) {
	line := Basket{
		Quantity: 3,
		Product:  &Product{Price: 19.99},
	}
	assert.InDelta(t, 59.97, line.Sum(), 0.001)
}

func TestBasketSumWithoutProduct(t *testing.T) {
	line := Basket{Quantity: 3}
	assert.Equal(t, 0.0, line.Sum())
}

func TestComputeBasketTotals(t *testing.T) {
	lines := []Basket{
		{Quantity: 2, Product: &Product{Price: 100}},
		{Quantity: 1, Product: &Product{Price: 49.5}},
		{Quantity: 5, Product: &Product{Price: 2}},
	}

	totals := ComputeBasketTotals(lines)
	assert.InDelta(t, 259.5, totals.TotalSum, 0.001)
	assert.Equal(t, 8, totals.TotalQuantity)
}

func TestComputeBasketTotalsEmpty(t *testing.T) {
	totals := ComputeBasketTotals(nil)
	assert.Equal(t, 0.0, totals.TotalSum)
	assert.Equal(t, 0, totals.TotalQuantity)
}

func TestComputeBasketTotalsFollowsCurrentPrice(t *testing.T) {
	product := &Product{Price: 10}
	lines := []Basket{{Quantity: 2, Product: product}}

	before := ComputeBasketTotals(lines)
	product.Price = 15
	after := ComputeBasketTotals(lines)

	assert.InDelta(t, 20, before.TotalSum, 0.001)
	assert.InDelta(t, 30, after.TotalSum, 0.001)
}
