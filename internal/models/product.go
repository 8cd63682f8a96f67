// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProductCategory struct {
	BaseModel
	Name        string `json:"name" gorm:"size:128;not null;uniqueIndex"`
	Description string `json:"description" gorm:"type:text"`

	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}

type Product struct {
	BaseModel
	Name        string         `json:"name" gorm:"size:256;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Price       float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity    int            `json:"quantity" gorm:"not null;default:0"`
	ImageURL    string         `json:"image_url" gorm:"size:512"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`
	CategoryID  uuid.UUID      `json:"category_id" gorm:"type:uuid;not null;index"`
	OwnerID     *uuid.UUID     `json:"owner_id,omitempty" gorm:"type:uuid;index"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`

	Category *ProductCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Owner    *User            `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}
