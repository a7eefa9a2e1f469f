package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/logger"
)

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
// and resolves the subject to an active principal.
func AuthRequired(jwtManager *JWTManager, lookup PrincipalLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
			})
			return
		}

		claims, err := jwtManager.ParseAndValidate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		principal, err := lookup.LookupPrincipal(c.Request.Context(), claims.Subject)
		if err != nil {
			if apperror.KindOf(err) == apperror.KindInternal {
				logger.FromGin(c).WithError(err).Error("principal lookup failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "account not found or inactive",
			})
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

// Require aborts with 403 unless the principal has the capability.
// It MUST be used after AuthRequired.
func Require(capability Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !p.Can(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "forbidden: " + capability.String() + " access required",
			})
			return
		}
		c.Next()
	}
}
