// Package product provides the Product catalog.
package product

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"ambar/internal/core/apperror"
	"ambar/internal/core/id"
)

// Product represents an item tracked by the inventory.
// Names are unique within the catalog, compared exactly and case-sensitively.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// New creates a Product with a generated identifier.
func New(name string) Product {
	return Product{
		ID:   id.New(),
		Name: name,
	}
}

// Validate checks the product fields.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("product name is required").
			WithDetail("field", "name")
	}
	return nil
}

// collator orders names the way a Persian-speaking user expects,
// ignoring case and diacritic differences.
var collator = collate.New(language.Persian, collate.Loose)

// Compare orders two product names with the catalog collation.
func Compare(a, b string) int {
	return collator.CompareString(a, b)
}

// SortByName sorts products in place by collated name.
// Listing order is by name, never by creation order.
func SortByName(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return Compare(products[i].Name, products[j].Name) < 0
	})
}
