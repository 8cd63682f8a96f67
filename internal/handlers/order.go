// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/storeapp/store-backend/internal/i18n"
	"github.com/storeapp/store-backend/internal/services"
	"github.com/storeapp/store-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	principal := principalFromContext(c)
	params := utils.GetPaginationParams(c)

	orders, total, err := h.orderService.List(principal, params)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	principal := principalFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Get(principal, id)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}

// POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	principal := principalFromContext(c)

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.Create(principal, &req)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCreated),
		"order":   order,
	})
}

// PUT /orders/:id
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	principal := principalFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	order, err := h.orderService.Update(principal, id, &req)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}

// POST /orders/:id/pay
func (h *OrderHandler) PayOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	principal := principalFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Pay(principal, id)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderPaid),
		"order":   order,
	})
}

// POST /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	principal := principalFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Cancel(principal, id)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCanceled),
		"order":   order,
	})
}

// PUT /orders/:id/status
func (h *OrderHandler) AdvanceOrderStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	principal := principalFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AdvanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	order, err := h.orderService.AdvanceStatus(principal, id, &req)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}

// GET /orders/stats
func (h *OrderHandler) GetOrderStats(c *gin.Context) {
	principal := principalFromContext(c)

	stats, err := h.orderService.Stats(principal)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}
