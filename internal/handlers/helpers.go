// internal/handlers/helpers.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procureflow/rfp-backend/internal/i18n"
	"github.com/procureflow/rfp-backend/internal/models"
	"github.com/procureflow/rfp-backend/internal/services"
	"github.com/procureflow/rfp-backend/internal/utils"
)

// currentUser resolves the authenticated user from the request context.
// It writes the error response itself, so callers just bail out on !ok.
func currentUser(c *gin.Context, authService *services.AuthService) (*models.User, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}

	user, err := authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		utils.NotFoundResponse(c, "user")
		return nil, false
	}

	return user, true
}

// parseIDParam parses the named path parameter as a UUID.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, name), nil)
		return uuid.Nil, false
	}
	return id, true
}
