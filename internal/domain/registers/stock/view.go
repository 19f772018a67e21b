// Package stock provides the stock reconciliation register: derived per-product
// balances computed on demand from the invoice collections. It owns no state
// and never mutates the store it reads.
package stock

import (
	"ambar/internal/domain/catalogs/product"
	"ambar/internal/domain/documents/invoice"
)

// View is a read-only snapshot of the record collections.
type View interface {
	Products() []product.Product
	Invoices(kind invoice.Kind) []invoice.Invoice
}

// excluding filters one invoice out of every collection. It models the
// hypothetical state in which the document being edited has already been
// removed, so an edit never counts against itself.
type excluding struct {
	base View
	id   string
}

// Excluding returns a view without the given invoice, in any collection.
func Excluding(v View, invoiceID string) View {
	if invoiceID == "" {
		return v
	}
	return excluding{base: v, id: invoiceID}
}

func (e excluding) Products() []product.Product {
	return e.base.Products()
}

func (e excluding) Invoices(kind invoice.Kind) []invoice.Invoice {
	all := e.base.Invoices(kind)
	out := make([]invoice.Invoice, 0, len(all))
	for _, inv := range all {
		if inv.ID == e.id {
			continue
		}
		out = append(out, inv)
	}
	return out
}
