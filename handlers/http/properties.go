package httpHandler

import (
	"net/http"

	"hoa-server/usecases"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	useCase *usecases.PropertyUseCase
}

func NewPropertyHandler(useCase *usecases.PropertyUseCase) *PropertyHandler {
	return &PropertyHandler{useCase: useCase}
}

// Create handles POST /api/properties
func (h *PropertyHandler) Create(c *gin.Context) {
	var req usecases.CreatePropertyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	property, err := h.useCase.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": property})
}

// List handles GET /api/properties
func (h *PropertyHandler) List(c *gin.Context) {
	properties, err := h.useCase.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": properties, "count": len(properties)})
}

// Get handles GET /api/properties/:id
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	property, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": property})
}

// Update handles PATCH /api/properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	property, err := h.useCase.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": property})
}

// Delete handles DELETE /api/properties/:id
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Units handles GET /api/properties/:id/units
func (h *PropertyHandler) Units(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	units, err := h.useCase.Units(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": units, "count": len(units)})
}
