package handlers

import (
	"sort"

	"github.com/gin-gonic/gin"

	"ambar/internal/domain/documents/invoice"
	"ambar/internal/infrastructure/http/v1/dto"
	"ambar/internal/store"
)

// InvoiceHandler handles HTTP requests for the three invoice collections.
// The collection is addressed by the :kind path segment (input, sales151,
// sales168).
type InvoiceHandler struct {
	*BaseHandler
	store *store.Store
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, st *store.Store) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, store: st}
}

// kind resolves the :kind path segment. Reports false after responding
// with a validation error.
func (h *InvoiceHandler) kind(c *gin.Context) (invoice.Kind, bool) {
	kind, err := invoice.ParseKind(c.Param("kind"))
	if err != nil {
		h.Error(c, err)
		return 0, false
	}
	return kind, true
}

// List returns one collection, newest date first.
// GET /api/v1/invoices/:kind
func (h *InvoiceHandler) List(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	invoices := h.store.Read().Invoices(kind)

	// Date tokens are zero-padded YYYY/MM/DD, so lexicographic order is
	// chronological order.
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].Date > invoices[j].Date
	})

	h.OK(c, dto.FromInvoices(kind, invoices))
}

// Create records a new invoice. The store rejects a sale that current stock
// cannot cover.
// POST /api/v1/invoices/:kind
func (h *InvoiceHandler) Create(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	var req dto.InvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.store.UpsertInvoice(c.Request.Context(), kind, req.ToEntity(""))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromInvoice(inv))
}

// Update replaces an invoice wholesale. The store's availability check
// excludes the invoice being edited, so an edit never counts against its own
// prior quantities.
// PUT /api/v1/invoices/:kind/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	var req dto.InvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.store.UpsertInvoice(c.Request.Context(), kind, req.ToEntity(c.Param("id")))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInvoice(inv))
}

// Delete removes an invoice. No backward stock check applies; the ledger is
// derived on demand.
// DELETE /api/v1/invoices/:kind/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	if err := h.store.RemoveInvoice(c.Request.Context(), kind, c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers invoice routes.
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:kind", h.List)
	rg.POST("/:kind", h.Create)
	rg.PUT("/:kind/:id", h.Update)
	rg.DELETE("/:kind/:id", h.Delete)
}
