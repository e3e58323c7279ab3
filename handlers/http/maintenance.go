package httpHandler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hoa-server/usecases"

	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	useCase *usecases.MaintenanceUseCase
}

func NewMaintenanceHandler(useCase *usecases.MaintenanceUseCase) *MaintenanceHandler {
	return &MaintenanceHandler{useCase: useCase}
}

type approveTagRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

type linkRequest struct {
	IDs []uint `json:"ids"`
}

// List handles GET /api/maintenance?unitId=
func (h *MaintenanceHandler) List(c *gin.Context) {
	var unitID uint
	if raw := c.Query("unitId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unitId"})
			return
		}
		unitID = uint(id)
	}

	reqs, err := h.useCase.List(c.Request.Context(), actor(c), unitID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reqs, "count": len(reqs)})
}

// Create handles POST /api/maintenance
func (h *MaintenanceHandler) Create(c *gin.Context) {
	var req usecases.CreateMaintenanceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.useCase.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// Update handles PATCH /api/maintenance/:id
func (h *MaintenanceHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	updated, err := h.useCase.UpdateFields(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// RequestTag handles PATCH /api/maintenance/:id/request-tag
func (h *MaintenanceHandler) RequestTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	req, err := h.useCase.RequestTag(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": req})
}

// ApproveTag handles PATCH /api/maintenance/:id/approve-tag
func (h *MaintenanceHandler) ApproveTag(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body approveTagRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	req, err := h.useCase.ApproveTag(c.Request.Context(), id, *body.Approve)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": req})
}

// Delete handles DELETE /api/maintenance/:id
func (h *MaintenanceHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Link handles POST /api/maintenance/link
func (h *MaintenanceHandler) Link(c *gin.Context) {
	var body linkRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	links, created, err := h.useCase.Link(c.Request.Context(), actor(c), body.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "created": created, "data": links})
}

// Meta handles GET /api/maintenance/meta
func (h *MaintenanceHandler) Meta(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.useCase.Meta()})
}

// ListByUnit handles GET /api/units/:id/requests
func (h *MaintenanceHandler) ListByUnit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	reqs, err := h.useCase.ListByUnit(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reqs, "count": len(reqs)})
}
