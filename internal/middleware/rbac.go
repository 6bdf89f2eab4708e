package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/portfolio-api/internal/models"
	appErrors "github.com/noah-isme/portfolio-api/pkg/errors"
	"github.com/noah-isme/portfolio-api/pkg/response"
)

// RequireRoles lets the request through only when the caller holds one of roles.
// A missing principal is 401, a principal without the role is 403.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		if claims == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required"))
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "operator role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireOperator admits the roles allowed to moderate submissions and edit content.
func RequireOperator() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin, models.RoleStaff)
}
