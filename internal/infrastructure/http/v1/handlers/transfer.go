package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"ambar/internal/core/apperror"
	"ambar/internal/store"
)

// maxImportSize bounds an uploaded backup document.
const maxImportSize = 16 << 20

// TransferHandler handles file export and import of the full state.
type TransferHandler struct {
	*BaseHandler
	store *store.Store
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(base *BaseHandler, st *store.Store) *TransferHandler {
	return &TransferHandler{BaseHandler: base, store: st}
}

// Export downloads the full state as a JSON attachment.
// GET /api/v1/export
func (h *TransferHandler) Export(c *gin.Context) {
	data, err := h.store.Export()
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+h.store.Settings().GistFilename+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

// Import replaces the state from an uploaded backup document. A document
// missing any record collection is rejected with local state untouched.
// POST /api/v1/import
func (h *TransferHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		h.Error(c, apperror.NewValidation("failed to read request body").WithDetail("error", err.Error()))
		return
	}

	if err := h.store.Import(c.Request.Context(), data); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "backup imported")
}

// RegisterRoutes registers transfer routes.
func (h *TransferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/export", h.Export)
	rg.POST("/import", h.Import)
}
