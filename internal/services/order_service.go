// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/storeapp/store-backend/internal/models"
	"github.com/storeapp/store-backend/internal/utils"
)

// OrderService is the checkout engine. Create converts the open basket
// into an immutable order, Pay freezes the priced snapshot, and the
// remaining transitions walk the status machine defined on
// models.OrderStatus.
type OrderService struct {
	db            *gorm.DB
	notifications *NotificationService
}

type CreateOrderRequest struct {
	FirstName string `json:"first_name" validate:"required,max=64"`
	LastName  string `json:"last_name" validate:"required,max=64"`
	Email     string `json:"email" validate:"required,email"`
	Address   string `json:"address" validate:"required,max=256"`
}

type UpdateOrderRequest struct {
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=64"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=64"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Address   string `json:"address,omitempty" validate:"omitempty,max=256"`
}

type AdvanceStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

type OrderStats struct {
	TotalOrders   int64   `json:"total_orders"`
	TotalSpent    float64 `json:"total_spent"`
	PendingOrders int64   `json:"pending_orders"`
}

func NewOrderService(db *gorm.DB, notifications *NotificationService) *OrderService {
	return &OrderService{
		db:            db,
		notifications: notifications,
	}
}

// Create converts every open basket line of the principal into an order
// in CREATED state. Lines are locked for the duration, each one becomes
// an order item with the catalog price captured as of this moment, and
// all of them are marked purchased so the open basket drains atomically.
// An empty basket is a validation failure, not an empty order.
func (s *OrderService) Create(principal *Principal, req *CreateOrderRequest) (*models.Order, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var lines []models.Basket
		if err := lockForUpdate(tx).
			Where("user_id = ? AND is_purchased = ?", principal.ID, false).
			Find(&lines).Error; err != nil {
			return fmt.Errorf("failed to fetch basket: %w", err)
		}

		if len(lines) == 0 {
			return fmt.Errorf("%w: no items in basket to order", ErrValidation)
		}

		productIDs := make([]uuid.UUID, 0, len(lines))
		for i := range lines {
			productIDs = append(productIDs, lines[i].ProductID)
		}

		var products []models.Product
		if err := tx.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
			return fmt.Errorf("failed to fetch products: %w", err)
		}
		priceByProduct := make(map[uuid.UUID]float64, len(products))
		for i := range products {
			priceByProduct[products[i].ID] = products[i].Price
		}

		order = models.Order{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			Address:     req.Address,
			Status:      models.OrderStatusCreated,
			InitiatorID: principal.ID,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := make([]models.OrderItem, 0, len(lines))
		lineIDs := make([]uuid.UUID, 0, len(lines))
		for i := range lines {
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: lines[i].ProductID,
				Quantity:  lines[i].Quantity,
				Price:     priceByProduct[lines[i].ProductID],
			})
			lineIDs = append(lineIDs, lines[i].ID)
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		if err := tx.Model(&models.Basket{}).Where("id IN ?", lineIDs).
			Update("is_purchased", true).Error; err != nil {
			return fmt.Errorf("failed to mark basket lines purchased: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Items").Preload("Items.Product").First(&order, "id = ?", order.ID)

	return &order, nil
}

// Pay transitions a CREATED order to PAID and freezes the basket_history
// snapshot onto it. The snapshot prices come from the order items
// captured at checkout, so a later catalog price change never touches a
// paid order. Any state other than CREATED is a conflict.
func (s *OrderService) Pay(principal *Principal, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if OrderDecision(principal, &order, ActionWrite) != DecisionAllow {
			return fmt.Errorf("%w: order", ErrNotFound)
		}

		if order.Status != models.OrderStatusCreated {
			return fmt.Errorf("%w: order cannot be paid in status %s", ErrConflict, order.Status)
		}

		var items []models.OrderItem
		if err := tx.Preload("Product").Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return fmt.Errorf("failed to fetch order items: %w", err)
		}

		// The snapshot is built from this order's own items so lines
		// consumed by earlier orders never bleed in.
		lines := make([]models.Basket, 0, len(items))
		for i := range items {
			lines = append(lines, models.Basket{
				UserID:    order.InitiatorID,
				ProductID: items[i].ProductID,
				Quantity:  items[i].Quantity,
				Product:   items[i].Product,
			})
		}

		order.Status = models.OrderStatusPaid
		order.BasketHistory = models.BuildBasketHistory(lines, items)
		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.dispatchConfirmation(&order)

	return &order, nil
}

func (s *OrderService) dispatchConfirmation(order *models.Order) {
	var user models.User
	if err := s.db.First(&user, "id = ?", order.InitiatorID).Error; err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Error("Failed to load initiator for order confirmation")
		return
	}
	if err := s.notifications.SendOrderConfirmationEmail(&user, order); err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Error("Failed to dispatch order confirmation")
	}
}

// Update edits the shipping fields of an order that has not been paid
// yet. Everything past CREATED is immutable.
func (s *OrderService) Update(principal *Principal, id uuid.UUID, req *UpdateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if OrderDecision(principal, &order, ActionWrite) != DecisionAllow {
			return fmt.Errorf("%w: order", ErrNotFound)
		}

		if order.Status != models.OrderStatusCreated {
			return fmt.Errorf("%w: order cannot be modified in status %s", ErrConflict, order.Status)
		}

		updates := make(map[string]interface{})
		if req.FirstName != "" {
			updates["first_name"] = req.FirstName
		}
		if req.LastName != "" {
			updates["last_name"] = req.LastName
		}
		if req.Email != "" {
			updates["email"] = req.Email
		}
		if req.Address != "" {
			updates["address"] = req.Address
		}

		if len(updates) > 0 {
			if err := tx.Model(&order).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update order: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Items").Preload("Items.Product").First(&order, "id = ?", id)

	return &order, nil
}

// Cancel moves a CREATED order to CANCELED. Paid and later orders
// cannot be canceled through this path.
func (s *OrderService) Cancel(principal *Principal, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if OrderDecision(principal, &order, ActionWrite) != DecisionAllow {
			return fmt.Errorf("%w: order", ErrNotFound)
		}

		if order.Status != models.OrderStatusCreated {
			return fmt.Errorf("%w: order cannot be canceled in status %s", ErrConflict, order.Status)
		}

		order.Status = models.OrderStatusCanceled
		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// AdvanceStatus is the staff fulfillment transition: PAID to ON_WAY to
// DELIVERED. Anything the status machine forbids is a conflict.
func (s *OrderService) AdvanceStatus(principal *Principal, id uuid.UUID, req *AdvanceStatusRequest) (*models.Order, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}
	if !principal.IsStaff {
		return nil, fmt.Errorf("%w: advancing order status requires staff", ErrForbidden)
	}

	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, req.Status)
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !order.Status.CanTransitionTo(req.Status) {
			return fmt.Errorf("%w: cannot move order from %s to %s", ErrConflict, order.Status, req.Status)
		}

		order.Status = req.Status
		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (s *OrderService) Get(principal *Principal, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").Preload("Items.Product").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if OrderDecision(principal, &order, ActionRead) != DecisionAllow {
		return nil, fmt.Errorf("%w: order", ErrNotFound)
	}

	return &order, nil
}

// List returns the principal's own orders; staff see everything.
func (s *OrderService) List(principal *Principal, params utils.PaginationParams) ([]models.Order, int64, error) {
	if principal == nil {
		return nil, 0, ErrUnauthenticated
	}

	query := s.db.Model(&models.Order{})
	if !principal.IsStaff {
		query = query.Where("initiator_id = ?", principal.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// Stats aggregates the principal's order history. total_spent sums the
// frozen snapshot totals, so it reflects prices as paid, never current
// catalog prices.
func (s *OrderService) Stats(principal *Principal) (*OrderStats, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	var orders []models.Order
	if err := s.db.Where("initiator_id = ?", principal.ID).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	stats := &OrderStats{TotalOrders: int64(len(orders))}
	for i := range orders {
		switch orders[i].Status {
		case models.OrderStatusCreated:
			stats.PendingOrders++
		case models.OrderStatusCanceled:
		default:
			stats.TotalSpent += models.SnapshotTotal(orders[i].BasketHistory)
		}
	}

	return stats, nil
}
