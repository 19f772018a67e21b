package handlers

import (
	"github.com/gin-gonic/gin"

	"ambar/internal/domain/catalogs/product"
	"ambar/internal/infrastructure/http/v1/dto"
	"ambar/internal/store"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	*BaseHandler
	store *store.Store
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, st *store.Store) *ProductHandler {
	return &ProductHandler{BaseHandler: base, store: st}
}

// List returns the catalog ordered by collated name.
// GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	products := h.store.Read().Products()
	product.SortByName(products)
	h.OK(c, dto.FromProducts(products))
}

// Create adds a product.
// POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.store.AddProduct(c.Request.Context(), req.Name)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromProduct(p))
}

// Update renames a product.
// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.store.RenameProduct(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

// Delete removes a product. Referenced products are refused.
// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.store.RemoveProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers product routes.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
