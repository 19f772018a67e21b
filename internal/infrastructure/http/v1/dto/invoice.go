package dto

import (
	"ambar/internal/domain/documents/invoice"
)

// LineRequest is one invoice row in a request body.
type LineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// InvoiceRequest for creating and replacing invoices.
// Date is a Jalali calendar token in YYYY/MM/DD form.
type InvoiceRequest struct {
	Date  string        `json:"date" binding:"required"`
	Items []LineRequest `json:"items" binding:"required"`
}

// ToEntity converts the request into a domain invoice with the given id.
// A blank id means create.
func (r InvoiceRequest) ToEntity(id string) invoice.Invoice {
	return invoice.Invoice{ID: id, Date: r.Date, Items: r.Lines()}
}

// Lines converts request rows into domain lines.
func (r InvoiceRequest) Lines() []invoice.Line {
	items := make([]invoice.Line, len(r.Items))
	for i, line := range r.Items {
		items[i] = invoice.Line{ProductID: line.ProductID, Quantity: line.Quantity}
	}
	return items
}

// LineResponse is one invoice row in a response body.
type LineResponse struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// InvoiceResponse contains invoice fields.
type InvoiceResponse struct {
	ID    string         `json:"id"`
	Date  string         `json:"date"`
	Items []LineResponse `json:"items"`
}

// FromInvoice creates InvoiceResponse from invoice.Invoice.
func FromInvoice(inv invoice.Invoice) InvoiceResponse {
	items := make([]LineResponse, len(inv.Items))
	for i, line := range inv.Items {
		items[i] = LineResponse{ProductID: line.ProductID, Quantity: line.Quantity}
	}
	return InvoiceResponse{ID: inv.ID, Date: inv.Date, Items: items}
}

// InvoiceListResponse wraps one invoice collection.
type InvoiceListResponse struct {
	Kind       string            `json:"kind"`
	Items      []InvoiceResponse `json:"items"`
	TotalCount int               `json:"totalCount"`
}

// FromInvoices creates InvoiceListResponse from an invoice slice.
func FromInvoices(kind invoice.Kind, invoices []invoice.Invoice) InvoiceListResponse {
	items := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		items[i] = FromInvoice(inv)
	}
	return InvoiceListResponse{Kind: kind.String(), Items: items, TotalCount: len(items)}
}
