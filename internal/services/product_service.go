// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/storeapp/store-backend/internal/models"
	"github.com/storeapp/store-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name        string    `json:"name" validate:"required,min=1,max=256"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Quantity    int       `json:"quantity" validate:"gte=0"`
	ImageURL    string    `json:"image_url,omitempty"`
	Images      []string  `json:"images,omitempty"`
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
}

type UpdateProductRequest struct {
	Name        string     `json:"name,omitempty" validate:"omitempty,min=1,max=256"`
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty" validate:"omitempty,gt=0"`
	Quantity    *int       `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	ImageURL    *string    `json:"image_url,omitempty"`
	Images      []string   `json:"images,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=128"`
	Description string `json:"description,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	IncludeInactive bool
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) List(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Category")

	if !params.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}

	if params.Category != "" {
		query = query.Joins("JOIN product_categories ON product_categories.id = products.category_id").
			Where("product_categories.name = ?", params.Category)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", searchTerm, searchTerm)
	}

	if params.MinPrice > 0 {
		query = query.Where("products.price >= ?", params.MinPrice)
	}
	if params.MaxPrice > 0 {
		query = query.Where("products.price <= ?", params.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "quantity"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) Get(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &product, nil
}

func (s *ProductService) Create(principal *Principal, req *CreateProductRequest) (*models.Product, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}
	if !principal.IsStaff {
		return nil, fmt.Errorf("%w: creating products requires staff", ErrForbidden)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var category models.ProductCategory
	if err := s.db.First(&category, "id = ?", req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	ownerID := principal.ID
	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		ImageURL:    req.ImageURL,
		Images:      req.Images,
		CategoryID:  req.CategoryID,
		OwnerID:     &ownerID,
		IsActive:    req.Quantity > 0,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.db.Preload("Category").First(product, "id = ?", product.ID)

	return product, nil
}

// Update applies a partial patch. Price must stay positive; a quantity
// hitting zero deactivates the listing.
func (s *ProductService) Update(principal *Principal, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.Price != nil && *req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if ProductDecision(principal, &product, ActionWrite) != DecisionAllow {
		return nil, fmt.Errorf("%w: updating this product", ErrForbidden)
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
		if *req.Quantity == 0 {
			updates["is_active"] = false
		}
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(req.Images)
	}
	if req.CategoryID != nil {
		var category models.ProductCategory
		if err := s.db.First(&category, "id = ?", *req.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: category", ErrNotFound)
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		updates["category_id"] = *req.CategoryID
	}

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.db.Preload("Category").First(&product, "id = ?", id)

	return &product, nil
}

// Delete is a soft delete: the listing is deactivated, never removed,
// so order history keeps its product references.
func (s *ProductService) Delete(principal *Principal, id uuid.UUID) error {
	if principal == nil {
		return ErrUnauthenticated
	}
	if !principal.IsStaff {
		return fmt.Errorf("%w: deleting products requires staff", ErrForbidden)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product", ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&product).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate product: %w", err)
	}

	return nil
}

func (s *ProductService) ListCategories() ([]models.ProductCategory, error) {
	var categories []models.ProductCategory
	if err := s.db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *ProductService) CreateCategory(principal *Principal, req *CreateCategoryRequest) (*models.ProductCategory, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}
	if !principal.IsStaff {
		return nil, fmt.Errorf("%w: creating categories requires staff", ErrForbidden)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	category := &models.ProductCategory{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}
