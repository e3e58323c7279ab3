package httpHandler

import (
	"errors"
	"net/http"

	"hoa-server/services"
	"hoa-server/usecases"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 5 << 20

type AdminHandler struct {
	useCase *usecases.AdminUseCase
}

func NewAdminHandler(useCase *usecases.AdminUseCase) *AdminHandler {
	return &AdminHandler{useCase: useCase}
}

// GenerateOverwriteCode handles POST /api/admin/generate-overwrite-code
func (h *AdminHandler) GenerateOverwriteCode(c *gin.Context) {
	var req usecases.GenerateCodeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	code, err := h.useCase.GenerateOverwriteCode(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"code": code.Code, "expiresAt": code.ExpiresAt}})
}

// AdminProperties handles GET /api/admin/:adminId/properties
func (h *AdminHandler) AdminProperties(c *gin.Context) {
	adminID, ok := paramID(c, "adminId")
	if !ok {
		return
	}
	props, err := h.useCase.AdminProperties(c.Request.Context(), adminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": props})
}

// UploadWhitelist handles POST /api/admin/whitelist/upload (multipart "file")
func (h *AdminHandler) UploadWhitelist(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	rows, err := services.ParseWhitelist(fh.Filename, f)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFile) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read file", "details": err.Error()})
		return
	}

	inserted, err := h.useCase.ImportWhitelist(c.Request.Context(), rows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "inserted": inserted})
}

// Whitelist handles GET /api/admin/whitelist
func (h *AdminHandler) Whitelist(c *gin.Context) {
	entries, err := h.useCase.Whitelist(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// RemoveWhitelisted handles DELETE /api/admin/whitelist/:id
func (h *AdminHandler) RemoveWhitelisted(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.RemoveWhitelisted(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
