package store

import (
	"context"
	"encoding/json"

	"ambar/internal/core/apperror"
	"ambar/internal/domain/catalogs/product"
	"ambar/internal/domain/documents/invoice"
	"ambar/pkg/logger"
)

// Export serializes the full state as an indented JSON document suitable for
// download and later import.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return data, nil
}

// importDoc distinguishes absent fields from empty ones, so a field missing
// from the document retains the prior local value.
type importDoc struct {
	Products      *[]product.Product `json:"products"`
	InputInvoices *[]invoice.Invoice `json:"inputInvoices"`
	Sales151      *[]invoice.Invoice `json:"sales151"`
	Sales168      *[]invoice.Invoice `json:"sales168"`
	Settings      *Settings          `json:"settings"`
}

// Import merges an uploaded document into the state. The document must carry
// all four record collections or it is rejected as malformed with the local
// state untouched. Present fields overwrite local ones of the same name.
func (s *Store) Import(ctx context.Context, data []byte) error {
	var doc importDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return apperror.NewValidation("backup document is not valid JSON").
			WithDetail("error", err.Error())
	}

	if doc.Products == nil || doc.InputInvoices == nil || doc.Sales151 == nil || doc.Sales168 == nil {
		return apperror.NewValidation("backup document is missing required collections").
			WithDetail("required", []string{"products", "inputInvoices", "sales151", "sales168"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Products = *doc.Products
	s.state.InputInvoices = *doc.InputInvoices
	s.state.Sales151 = *doc.Sales151
	s.state.Sales168 = *doc.Sales168
	if doc.Settings != nil {
		s.state.Settings = *doc.Settings
		if s.state.Settings.GistFilename == "" {
			s.state.Settings.GistFilename = DefaultFilename
		}
	}

	if err := s.persist(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "backup imported",
		"products", len(s.state.Products),
		"input_invoices", len(s.state.InputInvoices),
		"sales151", len(s.state.Sales151),
		"sales168", len(s.state.Sales168),
	)
	return nil
}
