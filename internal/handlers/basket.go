// internal/handlers/basket.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/storeapp/store-backend/internal/i18n"
	"github.com/storeapp/store-backend/internal/services"
	"github.com/storeapp/store-backend/internal/utils"
)

type BasketHandler struct {
	basketService *services.BasketService
}

func NewBasketHandler(basketService *services.BasketService) *BasketHandler {
	return &BasketHandler{
		basketService: basketService,
	}
}

// GET /basket
func (h *BasketHandler) GetBasket(c *gin.Context) {
	principal := principalFromContext(c)

	page, err := h.basketService.List(principal)
	if err != nil {
		respondServiceError(c, err, "basket")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"items":  page.Items,
		"totals": page.Totals,
	})
}

// GET /basket/:id
func (h *BasketHandler) GetBasketItem(c *gin.Context) {
	principal := principalFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	line, err := h.basketService.Get(principal, id)
	if err != nil {
		respondServiceError(c, err, "basket")
		return
	}

	utils.SuccessResponse(c, gin.H{"item": line})
}

// POST /basket
func (h *BasketHandler) AddBasketItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	principal := principalFromContext(c)

	var req services.AddBasketItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	line, err := h.basketService.AddOrMerge(principal, &req)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, gin.H{"item": line})
}

// PUT /basket/:id
func (h *BasketHandler) UpdateBasketItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	principal := principalFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateBasketItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	line, err := h.basketService.Update(principal, id, &req)
	if err != nil {
		respondServiceError(c, err, "basket")
		return
	}

	utils.SuccessResponse(c, gin.H{"item": line})
}

// DELETE /basket/:id
func (h *BasketHandler) RemoveBasketItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	principal := principalFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.basketService.Remove(principal, id); err != nil {
		respondServiceError(c, err, "basket")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBasketLineRemoved),
	})
}
