// internal/models/basket.go
package models

import (
	"github.com/google/uuid"
)

// Basket is a single pending-purchase line: one (user, product) pair
// with a quantity. At most one unpurchased line exists per pair; adding
// the same product again increments the existing line. Once consumed by
// checkout the line is marked purchased and becomes immutable history.
type Basket struct {
	BaseModel
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index:idx_baskets_user_purchased"`
	ProductID   uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity    int       `json:"quantity" gorm:"not null;default:1"`
	IsPurchased bool      `json:"is_purchased" gorm:"default:false;index:idx_baskets_user_purchased"`

	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Sum is the line total at the product's current catalog price. Only
// meaningful while Product is loaded.
func (b *Basket) Sum() float64 {
	if b.Product == nil {
		return 0
	}
	return b.Product.Price * float64(b.Quantity)
}

// BasketTotals are read-side projections over a user's basket,
// recomputed on every call and never stored.
type BasketTotals struct {
	TotalSum      float64 `json:"total_sum"`
	TotalQuantity int     `json:"total_quantity"`
}

func ComputeBasketTotals(lines []Basket) BasketTotals {
	var totals BasketTotals
	for i := range lines {
		totals.TotalSum += lines[i].Sum()
		totals.TotalQuantity += lines[i].Quantity
	}
	return totals
}
