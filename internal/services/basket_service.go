// internal/services/basket_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storeapp/store-backend/internal/models"
	"github.com/storeapp/store-backend/internal/utils"
)

// BasketService manages the open basket lines of a user. A line is one
// (user, product) pair with a quantity; once an order consumes it the
// line is frozen (is_purchased) and stops being editable or visible in
// the open basket.
type BasketService struct {
	db *gorm.DB
}

type AddBasketItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type UpdateBasketItemRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

type BasketPage struct {
	Items  []models.Basket     `json:"items"`
	Totals models.BasketTotals `json:"totals"`
}

func NewBasketService(db *gorm.DB) *BasketService {
	return &BasketService{db: db}
}

// AddOrMerge adds a product to the principal's basket. If an open line
// for the same product already exists its quantity goes up by one,
// otherwise a new line starts at one. The existing line is locked for
// the duration so concurrent adds cannot race past the one-open-line
// constraint.
func (s *BasketService) AddOrMerge(principal *Principal, req *AddBasketItemRequest) (*models.Basket, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var line models.Basket
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		err := lockForUpdate(tx).
			Where("user_id = ? AND product_id = ? AND is_purchased = ?", principal.ID, req.ProductID, false).
			First(&line).Error
		switch {
		case err == nil:
			if err := tx.Model(&line).Update("quantity", line.Quantity+1).Error; err != nil {
				return fmt.Errorf("failed to increment basket line: %w", err)
			}
			line.Quantity++
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Two concurrent first-time adds can both miss the lookup.
			// The insert upserts against the partial unique index on
			// (user_id, product_id) open lines, so the loser merges
			// into the winner's line instead of failing.
			line = models.Basket{
				UserID:    principal.ID,
				ProductID: req.ProductID,
				Quantity:  1,
			}
			onOpenLine := clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
				TargetWhere: clause.Where{Exprs: []clause.Expression{
					gorm.Expr("is_purchased = false AND deleted_at IS NULL"),
				}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"quantity": gorm.Expr("baskets.quantity + 1"),
				}),
			}
			if err := tx.Clauses(onOpenLine).Create(&line).Error; err != nil {
				return fmt.Errorf("failed to create basket line: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("database error: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Product").Preload("Product.Category").First(&line, "id = ?", line.ID)

	return &line, nil
}

// Update sets the quantity of an open line. Purchased lines are frozen
// and reject the edit; zero or negative quantities are invalid rather
// than an implicit delete.
func (s *BasketService) Update(principal *Principal, id uuid.UUID, req *UpdateBasketItemRequest) (*models.Basket, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	var line models.Basket
	if err := s.db.First(&line, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: basket item", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if BasketDecision(principal, &line, ActionWrite) != DecisionAllow {
		return nil, fmt.Errorf("%w: basket item", ErrNotFound)
	}

	if line.IsPurchased {
		return nil, fmt.Errorf("%w: cannot modify purchased items", ErrConflict)
	}

	if err := s.db.Model(&line).Update("quantity", req.Quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update basket line: %w", err)
	}
	line.Quantity = req.Quantity

	s.db.Preload("Product").Preload("Product.Category").First(&line, "id = ?", line.ID)

	return &line, nil
}

// Remove deletes an open line. Purchased lines belong to an order's
// history and stay.
func (s *BasketService) Remove(principal *Principal, id uuid.UUID) error {
	if principal == nil {
		return ErrUnauthenticated
	}

	var line models.Basket
	if err := s.db.First(&line, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: basket item", ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	if BasketDecision(principal, &line, ActionWrite) != DecisionAllow {
		return fmt.Errorf("%w: basket item", ErrNotFound)
	}

	if line.IsPurchased {
		return fmt.Errorf("%w: cannot delete purchased items", ErrConflict)
	}

	if err := s.db.Delete(&line).Error; err != nil {
		return fmt.Errorf("failed to delete basket line: %w", err)
	}

	return nil
}

// List returns the principal's open basket with totals recomputed from
// current product prices. Totals are never cached; a price change shows
// up on the next read.
func (s *BasketService) List(principal *Principal) (*BasketPage, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	var lines []models.Basket
	if err := s.db.Preload("Product").Preload("Product.Category").
		Where("user_id = ? AND is_purchased = ?", principal.ID, false).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch basket: %w", err)
	}

	return &BasketPage{
		Items:  lines,
		Totals: models.ComputeBasketTotals(lines),
	}, nil
}

func (s *BasketService) Get(principal *Principal, id uuid.UUID) (*models.Basket, error) {
	var line models.Basket
	if err := s.db.Preload("Product").Preload("Product.Category").
		First(&line, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: basket item", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if BasketDecision(principal, &line, ActionRead) != DecisionAllow {
		return nil, fmt.Errorf("%w: basket item", ErrNotFound)
	}

	return &line, nil
}
