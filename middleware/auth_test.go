package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hoa-server/entities"
	"hoa-server/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubParser map[string]*services.Claims

func (s stubParser) ParseAccess(token string) (*services.Claims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, services.ErrInvalidToken
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := stubParser{
		"admin-token": {UserID: 1, Role: entities.RoleAdmin},
		"owner-token": {UserID: 2, Role: entities.RoleOwner},
	}
	r := gin.New()
	r.GET("/admin", AuthenticateToken(tokens), AuthorizeRoles(entities.RoleAdmin), func(c *gin.Context) {
		claims, _ := Claims(c)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	r.GET("/unauthenticated", AuthorizeRoles(entities.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	r := newAuthRouter()

	cases := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"missing token", "/admin", "", http.StatusUnauthorized, `{"error":"Access token is required"}`},
		{"wrong scheme", "/admin", "Basic admin-token", http.StatusUnauthorized, `{"error":"Access token is required"}`},
		{"invalid token", "/admin", "Bearer nope", http.StatusForbidden, `{"error":"Invalid token"}`},
		{"wrong role", "/admin", "Bearer owner-token", http.StatusForbidden, `{"error":"Forbidden"}`},
		{"admin", "/admin", "bearer admin-token", http.StatusOK, `{"userId":1}`},
		{"roles without authentication", "/unauthenticated", "", http.StatusUnauthorized, `{"error":"Access token is required"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("  BEARER   abc "))
	assert.Empty(t, BearerToken("abc"))
	assert.Empty(t, BearerToken("Token abc"))
	assert.Empty(t, BearerToken(""))
}
