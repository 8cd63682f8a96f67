// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storeapp/store-backend/internal/services"
	"github.com/storeapp/store-backend/internal/utils"
)

// principalFromContext rebuilds the request principal from the values
// the auth middleware stored. Nil when the request is anonymous.
func principalFromContext(c *gin.Context) *services.Principal {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return nil
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil
	}

	username := ""
	if v, ok := c.Get("username"); ok {
		if s, ok := v.(string); ok {
			username = s
		}
	}

	return &services.Principal{
		ID:       userID,
		Username: username,
		IsStaff:  utils.GetIsStaffFromContext(c),
	}
}

// respondServiceError translates a service error to the HTTP surface.
// The not-found branch is also how denied access to someone else's
// resource comes out, so both look identical to the client.
func respondServiceError(c *gin.Context, err error, notFoundKey string) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		utils.UnauthorizedResponse(c, "")
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, notFoundKey)
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}
