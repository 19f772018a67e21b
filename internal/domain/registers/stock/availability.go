package stock

import (
	"ambar/internal/core/apperror"
	"ambar/internal/domain/documents/invoice"
)

// ValidateAvailability checks that each candidate sale line can be covered by
// current stock. When excludeInvoiceID is set, availability is computed as if
// that invoice had already been removed (edit-in-place semantics).
//
// Lines are checked in order and the first shortage wins; the user gets one
// issue at a time. Lines naming a product the catalog does not contain are
// skipped. Input invoices are never checked: supply is not stock-limited.
func ValidateAvailability(v View, lines []invoice.Line, excludeInvoiceID string) error {
	v = Excluding(v, excludeInvoiceID)

	known := make(map[string]bool, len(v.Products()))
	for _, p := range v.Products() {
		known[p.ID] = true
	}

	for _, line := range lines {
		if !known[line.ProductID] {
			continue
		}

		available := Available(v, line.ProductID)
		if available < line.Quantity {
			return apperror.NewInsufficientStock(line.ProductID, available, line.Quantity)
		}
	}

	return nil
}
