package handlers

import (
	"github.com/gin-gonic/gin"

	"ambar/internal/domain/registers/stock"
	"ambar/internal/infrastructure/http/v1/dto"
	"ambar/internal/store"
)

// InventoryHandler serves the derived reconciliation report.
type InventoryHandler struct {
	*BaseHandler
	store *store.Store
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, st *store.Store) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, store: st}
}

// List recomputes the per-product balances from the current collections.
// GET /api/v1/inventory
func (h *InventoryHandler) List(c *gin.Context) {
	snapshots := stock.ComputeInventory(h.store.Read())
	h.OK(c, dto.FromSnapshots(snapshots))
}

// RegisterRoutes registers inventory routes.
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
}
