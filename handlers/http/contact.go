package httpHandler

import (
	"net/http"

	"hoa-server/usecases"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	useCase *usecases.ContactUseCase
}

func NewContactHandler(useCase *usecases.ContactUseCase) *ContactHandler {
	return &ContactHandler{useCase: useCase}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req usecases.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := h.useCase.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": saved.ID})
}
