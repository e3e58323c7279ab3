package middleware

import (
	"net/http"
	"strings"

	"hoa-server/entities"
	"hoa-server/services"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// TokenParser verifies access tokens.
type TokenParser interface {
	ParseAccess(token string) (*services.Claims, error)
}

// AuthenticateToken requires a valid bearer access token and stores its
// claims on the context.
func AuthenticateToken(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token is required"})
			return
		}
		claims, err := tokens.ParseAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// AuthorizeRoles lets the request through only for the listed roles.
// It must run after AuthenticateToken.
func AuthorizeRoles(roles ...entities.Role) gin.HandlerFunc {
	roleSet := map[entities.Role]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token is required"})
			return
		}
		if _, ok := roleSet[claims.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// Claims returns the claims stored by AuthenticateToken.
func Claims(c *gin.Context) (*services.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.Claims)
	return claims, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
