package httpHandler

import (
	"net/http"

	"hoa-server/usecases"

	"github.com/gin-gonic/gin"
)

type TenantHandler struct {
	useCase *usecases.TenantUseCase
}

func NewTenantHandler(useCase *usecases.TenantUseCase) *TenantHandler {
	return &TenantHandler{useCase: useCase}
}

type createTenantRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

type assignUnitRequest struct {
	UnitID uint `json:"unitId" binding:"required"`
}

// Create handles POST /api/tenants
func (h *TenantHandler) Create(c *gin.Context) {
	var req createTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tenant, err := h.useCase.Create(c.Request.Context(), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": tenant})
}

// List handles GET /api/tenants
func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.useCase.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tenants, "count": len(tenants)})
}

// Get handles GET /api/tenants/:id
func (h *TenantHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tenant, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tenant})
}

// AssignUnit handles PUT /api/tenants/:id/unit
func (h *TenantHandler) AssignUnit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req assignUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tenant, err := h.useCase.AssignUnit(c.Request.Context(), id, req.UnitID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tenant})
}

// Delete handles DELETE /api/tenants/:id
func (h *TenantHandler) Delete(c *gin.Context) {
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
