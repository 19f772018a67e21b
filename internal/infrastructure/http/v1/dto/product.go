package dto

import (
	"ambar/internal/domain/catalogs/product"
)

// ProductRequest for creating and renaming products.
type ProductRequest struct {
	Name string `json:"name" binding:"required"`
}

// ProductResponse contains product fields.
type ProductResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FromProduct creates ProductResponse from product.Product.
func FromProduct(p product.Product) ProductResponse {
	return ProductResponse{ID: p.ID, Name: p.Name}
}

// ProductListResponse wraps the product catalog.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	TotalCount int               `json:"totalCount"`
}

// FromProducts creates ProductListResponse from a product slice.
func FromProducts(products []product.Product) ProductListResponse {
	items := make([]ProductResponse, len(products))
	for i, p := range products {
		items[i] = FromProduct(p)
	}
	return ProductListResponse{Items: items, TotalCount: len(items)}
}
