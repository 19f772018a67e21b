package store

import (
	"time"

	"ambar/internal/domain/catalogs/product"
	"ambar/internal/domain/documents/invoice"
)

// Settings holds the remote-sync bookkeeping carried inside the snapshot.
type Settings struct {
	GistFilename string `json:"gistFilename"`
	GistID       string `json:"gistId,omitempty"`
	GistURL      string `json:"gistUrl,omitempty"`
}

// DefaultFilename is the file name used inside remote backup documents.
const DefaultFilename = "inventory-backup.json"

// State is the full application state: the four record collections plus
// settings. It is serialized wholesale as a single JSON document.
type State struct {
	Products      []product.Product `json:"products"`
	InputInvoices []invoice.Invoice `json:"inputInvoices"`
	Sales151      []invoice.Invoice `json:"sales151"`
	Sales168      []invoice.Invoice `json:"sales168"`
	Settings      Settings          `json:"settings"`
}

func defaultState() State {
	return State{
		Products:      []product.Product{},
		InputInvoices: []invoice.Invoice{},
		Sales151:      []invoice.Invoice{},
		Sales168:      []invoice.Invoice{},
		Settings: Settings{
			GistFilename: DefaultFilename,
		},
	}
}

// collection maps an invoice kind to its slice within the state.
func (st *State) collection(kind invoice.Kind) *[]invoice.Invoice {
	switch kind {
	case invoice.KindSale151:
		return &st.Sales151
	case invoice.KindSale168:
		return &st.Sales168
	default:
		return &st.InputInvoices
	}
}

func cloneInvoices(src []invoice.Invoice) []invoice.Invoice {
	out := make([]invoice.Invoice, len(src))
	for i, inv := range src {
		out[i] = inv.Clone()
	}
	return out
}

func (st *State) clone() State {
	cp := *st
	cp.Products = make([]product.Product, len(st.Products))
	copy(cp.Products, st.Products)
	cp.InputInvoices = cloneInvoices(st.InputInvoices)
	cp.Sales151 = cloneInvoices(st.Sales151)
	cp.Sales168 = cloneInvoices(st.Sales168)
	return cp
}

// view adapts a state copy to the stock register's read contract.
type view struct {
	state State
}

func (v view) Products() []product.Product {
	return v.state.Products
}

func (v view) Invoices(kind invoice.Kind) []invoice.Invoice {
	return *v.state.collection(kind)
}

// Backup is the document pushed to and pulled from the remote boundary.
// Settings stay local; only the record collections travel.
type Backup struct {
	Products      []product.Product `json:"products"`
	InputInvoices []invoice.Invoice `json:"inputInvoices"`
	Sales151      []invoice.Invoice `json:"sales151"`
	Sales168      []invoice.Invoice `json:"sales168"`
	Timestamp     time.Time         `json:"timestamp"`
}
