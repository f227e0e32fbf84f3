package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderTotals(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Quantity: 5, Price: 7.30},
			{Quantity: 2, Price: 350},
			{Quantity: 1, Price: 0},
		},
	}

	assert.Equal(t, 8, order.TotalQuantity())
	assert.InDelta(t, 736.50, order.TotalCost(), 1e-9)
}

func TestOrderTotalsEmpty(t *testing.T) {
	var order Order
	assert.Equal(t, 0, order.TotalQuantity())
	assert.Equal(t, 0.0, order.TotalCost())
}
