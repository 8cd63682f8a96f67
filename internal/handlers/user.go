// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/storeapp/store-backend/internal/i18n"
	"github.com/storeapp/store-backend/internal/services"
	"github.com/storeapp/store-backend/internal/utils"
)

type UserHandler struct {
	userService    *services.UserService
	storageService *services.StorageService
}

func NewUserHandler(userService *services.UserService, storageService *services.StorageService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		storageService: storageService,
	}
}

// GET /users
func (h *UserHandler) GetUsers(c *gin.Context) {
	principal := principalFromContext(c)
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.List(principal, params)
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}

	result := utils.CreatePaginationResult(users, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	principal := principalFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(principal, id)
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}

// POST /users/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	principal := principalFromContext(c)
	if principal == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}
	defer file.Close()

	options := h.storageService.GetDefaultUploadOptions("avatars")
	result, err := h.storageService.UploadFile(file, fileHeader, options)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	user, err := h.userService.SetImageURL(principal, result.URL)
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserAvatarUpdated),
		"user":    user,
		"image":   result,
	})
}
