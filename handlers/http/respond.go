package httpHandler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"hoa-server/middleware"
	"hoa-server/repositories"
	"hoa-server/usecases"

	"github.com/gin-gonic/gin"
)

// statusFor maps use case errors onto HTTP status codes.
func statusFor(err error) int {
	var verr *usecases.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, usecases.ErrInvalidCode),
		errors.Is(err, usecases.ErrNoUnitsSpecified),
		errors.Is(err, repositories.ErrReference):
		return http.StatusBadRequest
	case errors.Is(err, usecases.ErrInvalidCredentials),
		errors.Is(err, usecases.ErrInvalidRefreshToken):
		return http.StatusUnauthorized
	case errors.Is(err, usecases.ErrUnauthorizedSignup),
		errors.Is(err, usecases.ErrForbidden),
		errors.Is(err, usecases.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, usecases.ErrNotFound),
		errors.Is(err, usecases.ErrTenantProfileNotFound),
		errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecases.ErrDuplicateEmail),
		errors.Is(err, repositories.ErrDuplicate):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": ...}. Unexpected errors are logged
// and reported generically.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", middleware.TraceID(c.Request.Context()), c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "Something went wrong"})
		return
	}
	var verr *usecases.ValidationError
	if errors.As(err, &verr) {
		c.JSON(status, gin.H{"error": "Validation failed", "details": verr.Fields})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}

// actor builds the use case caller from the authenticated claims.
func actor(c *gin.Context) usecases.Actor {
	claims, ok := middleware.Claims(c)
	if !ok {
		return usecases.Actor{}
	}
	return usecases.Actor{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
}

// paramID parses a positive numeric path parameter, answering 400 itself
// when it is malformed.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
