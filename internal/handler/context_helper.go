package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-adp-api/internal/middleware"
	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
	"github.com/noah-isme/college-adp-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// currentUserID returns the authenticated user ID or writes a 401.
func currentUserID(c *gin.Context) (string, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}
