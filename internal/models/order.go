// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

type Order struct {
	BaseModel
	FirstName     string      `json:"first_name" gorm:"size:64;not null"`
	LastName      string      `json:"last_name" gorm:"size:64;not null"`
	Email         string      `json:"email" gorm:"size:128;not null"`
	Address       string      `json:"address" gorm:"size:256;not null"`
	Status        OrderStatus `json:"status" gorm:"type:varchar(20);default:'created';index"`
	InitiatorID   uuid.UUID   `json:"initiator_id" gorm:"type:uuid;not null;index"`
	BasketHistory JSONB       `json:"basket_history" gorm:"type:jsonb"`

	Initiator *User       `json:"initiator,omitempty" gorm:"foreignKey:InitiatorID"`
	Items     []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem is the immutable snapshot line created at checkout. Price
// is captured from the catalog at purchase time and must never follow
// later catalog changes.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	Price     float64   `json:"price" gorm:"type:decimal(10,2);not null"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// PurchasedItem is one line of the frozen basket_history snapshot.
type PurchasedItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	Sum         float64   `json:"sum"`
}

// BuildBasketHistory materializes the denormalized snapshot stored on
// the order at pay time. The lines passed in are the initiator's
// purchased basket lines with products preloaded; prices come from the
// order items captured at checkout, falling back to the current catalog
// price when no matching item exists.
func BuildBasketHistory(lines []Basket, items []OrderItem) JSONB {
	priceByProduct := make(map[uuid.UUID]float64, len(items))
	for i := range items {
		priceByProduct[items[i].ProductID] = items[i].Price
	}

	purchased := make([]interface{}, 0, len(lines))
	var totalSum float64
	for i := range lines {
		line := &lines[i]
		price, ok := priceByProduct[line.ProductID]
		if !ok && line.Product != nil {
			price = line.Product.Price
		}
		sum := price * float64(line.Quantity)
		totalSum += sum

		item := PurchasedItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     price,
			Sum:       sum,
		}
		if line.Product != nil {
			item.ProductName = line.Product.Name
		}
		purchased = append(purchased, map[string]interface{}{
			"product_id":   item.ProductID.String(),
			"product_name": item.ProductName,
			"quantity":     item.Quantity,
			"price":        item.Price,
			"sum":          item.Sum,
		})
	}

	return JSONB{
		"purchased_items": purchased,
		"total_sum":       totalSum,
	}
}

// SnapshotTotal reads the frozen total_sum out of a stored
// basket_history blob. Returns 0 when no snapshot has been frozen yet.
func SnapshotTotal(history JSONB) float64 {
	if history == nil {
		return 0
	}
	switch v := history["total_sum"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
