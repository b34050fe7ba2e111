package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitvs/coaching-service/internal/auth"
	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/utils"
)

const identityKey = "identity"

// AuthMiddleware resolves the bearer token into the caller identity
type AuthMiddleware struct {
	authenticator auth.Authenticator
	logger        utils.Logger
}

func NewAuthMiddleware(authenticator auth.Authenticator, logger utils.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		logger:        logger,
	}
}

// Authenticate rejects requests without a valid credential and stores the
// identity in the gin context.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		identity, err := am.authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredential) {
				abortUnauthorized(c, err)
				return
			}
			utils.GetLogger(c, am.logger).Error("Authentication backend failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
				Message: "Internal server error",
			})
			return
		}

		c.Set(identityKey, identity)
		c.Set("user_id", identity.UserID)
		c.Set("user_role", identity.Role)
		c.Set("user_email", identity.Email)

		c.Next()
	}
}

// RequireRoleMiddleware allows only the listed roles through
func (am *AuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := GetIdentityFromContext(c)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		for _, role := range requiredRoles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
			Details: fmt.Sprintf("role %q may not access this resource", identity.Role),
		})
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	message := "invalid credential"
	if errors.Is(err, auth.ErrMissingCredential) {
		message = "authorization header missing"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Message: "Unauthorized",
		Details: message,
	})
}

// GetIdentityFromContext extracts the caller identity from Gin context
func GetIdentityFromContext(c *gin.Context) (models.Identity, error) {
	value, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, fmt.Errorf("identity not found in context")
	}

	identity, ok := value.(models.Identity)
	if !ok {
		return models.Identity{}, fmt.Errorf("invalid identity type in context")
	}

	return identity, nil
}
