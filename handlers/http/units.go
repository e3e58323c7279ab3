package httpHandler

import (
	"net/http"

	"hoa-server/usecases"

	"github.com/gin-gonic/gin"
)

type UnitHandler struct {
	useCase *usecases.UnitUseCase
}

func NewUnitHandler(useCase *usecases.UnitUseCase) *UnitHandler {
	return &UnitHandler{useCase: useCase}
}

type setOwnerRequest struct {
	OwnerID uint `json:"ownerId" binding:"required"`
}

// Create handles POST /api/units
func (h *UnitHandler) Create(c *gin.Context) {
	var req usecases.CreateUnitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	unit, err := h.useCase.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": unit})
}

// List handles GET /api/units
func (h *UnitHandler) List(c *gin.Context) {
	units, err := h.useCase.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": units, "count": len(units)})
}

// Get handles GET /api/units/:id
func (h *UnitHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	unit, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": unit})
}

// Update handles PATCH /api/units/:id
func (h *UnitHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	unit, err := h.useCase.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": unit})
}

// Delete handles DELETE /api/units/:id
func (h *UnitHandler) Delete(c *gin.Context) {
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

// SetOwner handles PUT /api/units/:id/owner
func (h *UnitHandler) SetOwner(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req setOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	unit, err := h.useCase.SetOwner(c.Request.Context(), id, req.OwnerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": unit})
}
