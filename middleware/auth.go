package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-booking/models"
	"hotel-booking/utils"
)

const (
	ContextUserID = "user_id"
	ContextUser   = "user"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// AuthRequired rejects requests without a live session token and stores the
// resolved user under ContextUser.
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			utils.AbortJSONError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			utils.AbortJSONError(c, http.StatusUnauthorized, "user not authenticated")
			return
		}
		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

// RequireRole runs after AuthRequired and rejects users whose role is not
// one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.AbortJSONError(c, http.StatusUnauthorized, "user not authenticated")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		utils.AbortJSONError(c, http.StatusForbidden, "insufficient permissions")
	}
}
