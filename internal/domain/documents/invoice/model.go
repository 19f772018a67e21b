// Package invoice provides the invoice documents: input (purchase) invoices
// and the sale invoices of the two sales channels.
package invoice

import (
	"ambar/internal/core/apperror"
	"ambar/internal/core/dates"
	"ambar/internal/core/id"
)

// Kind identifies which collection an invoice belongs to.
type Kind int

const (
	// KindInput records stock received (the supply side).
	KindInput Kind = iota
	// KindSale151 records sales through channel 151.
	KindSale151
	// KindSale168 records sales through channel 168.
	KindSale168
)

// Kinds lists all invoice kinds in collection order.
var Kinds = []Kind{KindInput, KindSale151, KindSale168}

// SaleKinds lists the two sale channels.
var SaleKinds = []Kind{KindSale151, KindSale168}

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindSale151:
		return "sales151"
	case KindSale168:
		return "sales168"
	default:
		return "unknown"
	}
}

// IsSale reports whether the kind is one of the sale channels.
// Only sale invoices are stock-limited.
func (k Kind) IsSale() bool {
	return k == KindSale151 || k == KindSale168
}

// ParseKind resolves a wire name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "input":
		return KindInput, nil
	case "sales151":
		return KindSale151, nil
	case "sales168":
		return KindSale168, nil
	default:
		return 0, apperror.NewValidation("unknown invoice kind").
			WithDetail("field", "kind").
			WithDetail("value", s)
	}
}

// Line is one invoice row: a product reference and a positive quantity.
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Invoice is a dated document with at least one line.
// Identity is immutable; date and lines are replaced wholesale on edit.
type Invoice struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Items []Line `json:"items"`
}

// New creates an Invoice with a generated identifier.
func New(date string, items []Line) Invoice {
	return Invoice{
		ID:    id.New(),
		Date:  date,
		Items: items,
	}
}

// Validate checks the document fields.
func (inv *Invoice) Validate() error {
	if err := dates.Validate(inv.Date); err != nil {
		return err
	}

	if len(inv.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, line := range inv.Items {
		if line.ProductID == "" {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// QuantityOf returns the quantity this invoice contributes for a product.
// Only the first matching line counts per document.
func (inv *Invoice) QuantityOf(productID string) int {
	for _, line := range inv.Items {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

// References reports whether any line cites the product.
func (inv *Invoice) References(productID string) bool {
	for _, line := range inv.Items {
		if line.ProductID == productID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the invoice.
func (inv Invoice) Clone() Invoice {
	out := inv
	out.Items = make([]Line, len(inv.Items))
	copy(out.Items, inv.Items)
	return out
}
