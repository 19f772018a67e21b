package stock

import (
	"ambar/internal/domain/documents/invoice"
)

// Referenced reports whether any invoice line, in any collection, cites the
// product. Gates product deletion: a referenced product cannot be removed.
func Referenced(v View, productID string) bool {
	for _, kind := range invoice.Kinds {
		for _, inv := range v.Invoices(kind) {
			if inv.References(productID) {
				return true
			}
		}
	}
	return false
}
