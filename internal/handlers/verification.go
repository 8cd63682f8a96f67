// internal/handlers/verification.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/storeapp/store-backend/internal/i18n"
	"github.com/storeapp/store-backend/internal/services"
	"github.com/storeapp/store-backend/internal/utils"
)

type VerificationHandler struct {
	verificationService *services.VerificationService
}

func NewVerificationHandler(verificationService *services.VerificationService) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
	}
}

// GET /verifications
func (h *VerificationHandler) GetVerifications(c *gin.Context) {
	principal := principalFromContext(c)

	records, err := h.verificationService.List(principal)
	if err != nil {
		respondServiceError(c, err, "verification")
		return
	}

	utils.SuccessResponse(c, gin.H{"verifications": records})
}

// GET /verifications/:id
func (h *VerificationHandler) GetVerification(c *gin.Context) {
	principal := principalFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.verificationService.Get(principal, id)
	if err != nil {
		respondServiceError(c, err, "verification")
		return
	}

	utils.SuccessResponse(c, gin.H{"verification": record})
}

// POST /verifications/:id/verify
func (h *VerificationHandler) Verify(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	principal := principalFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.verificationService.Verify(principal, id)
	if err != nil {
		respondServiceError(c, err, "verification")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyVerificationSuccess),
		"verification": record,
	})
}

// POST /verifications/:id/resend
func (h *VerificationHandler) Resend(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	principal := principalFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.verificationService.Resend(principal, id); err != nil {
		respondServiceError(c, err, "verification")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyVerificationResent),
	})
}
