// Package store provides the record store: the single owner of the product
// and invoice collections, with whole-snapshot persistence after every
// mutation.
package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"ambar/internal/core/apperror"
	"ambar/internal/domain/catalogs/product"
	"ambar/internal/domain/documents/invoice"
	"ambar/internal/domain/registers/stock"
	"ambar/pkg/logger"
)

// SnapshotStore is the durability boundary: one opaque document under one
// key. Save replaces it wholesale; a failed Save must leave the previous
// snapshot intact.
type SnapshotStore interface {
	// Load returns the last snapshot, or ok=false when none exists yet.
	Load(ctx context.Context) (data []byte, ok bool, err error)
	Save(ctx context.Context, data []byte) error
}

// Store owns the application state. All operations serialize behind one
// mutex: a user action is processed to completion, including persistence,
// before the next is accepted.
type Store struct {
	mu        sync.Mutex
	state     State
	snapshots SnapshotStore
}

// Open loads the last snapshot from the durability boundary, or starts with
// an empty state when none exists.
func Open(ctx context.Context, snapshots SnapshotStore) (*Store, error) {
	st := defaultState()

	data, ok, err := snapshots.Load(ctx)
	if err != nil {
		return nil, apperror.NewPersistence(err)
	}
	if ok {
		// Unmarshal over the defaults: fields absent from an older
		// snapshot keep their default values.
		if err := json.Unmarshal(data, &st); err != nil {
			return nil, apperror.NewPersistence(err).WithDetail("reason", "corrupt snapshot")
		}
	}

	logger.Info(ctx, "store opened",
		"products", len(st.Products),
		"input_invoices", len(st.InputInvoices),
		"sales151", len(st.Sales151),
		"sales168", len(st.Sales168),
	)

	return &Store{state: st, snapshots: snapshots}, nil
}

// persist writes the whole state snapshot. Callers hold the mutex.
// On failure the in-memory mutation is kept so the user can retry saving;
// the durable snapshot remains the previous one.
func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.state)
	if err != nil {
		return apperror.NewInternal(err)
	}
	if err := s.snapshots.Save(ctx, data); err != nil {
		logger.Error(ctx, "snapshot write failed", "error", err)
		return apperror.NewPersistence(err)
	}
	return nil
}

// Read returns an isolated read-only view of the current collections.
func (s *Store) Read() stock.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view{state: s.state.clone()}
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

// --- Products ---

// AddProduct creates a product. Names are unique, compared exactly.
func (s *Store) AddProduct(ctx context.Context, name string) (product.Product, error) {
	name = strings.TrimSpace(name)

	p := product.New(name)
	if err := p.Validate(); err != nil {
		return product.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.state.Products {
		if existing.Name == name {
			return product.Product{}, apperror.NewDuplicate("product", "name", name)
		}
	}

	s.state.Products = append(s.state.Products, p)
	if err := s.persist(ctx); err != nil {
		return p, err
	}

	logger.Info(ctx, "product added", "id", p.ID, "name", p.Name)
	return p, nil
}

// RenameProduct changes a product's name in place.
func (s *Store) RenameProduct(ctx context.Context, id, name string) (product.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return product.Product{}, apperror.NewValidation("product name is required").
			WithDetail("field", "name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.state.Products {
		if p.ID == id {
			idx = i
			continue
		}
		if p.Name == name {
			return product.Product{}, apperror.NewDuplicate("product", "name", name)
		}
	}
	if idx < 0 {
		return product.Product{}, apperror.NewNotFound("product", id)
	}

	s.state.Products[idx].Name = name
	if err := s.persist(ctx); err != nil {
		return s.state.Products[idx], err
	}

	logger.Info(ctx, "product renamed", "id", id, "name", name)
	return s.state.Products[idx], nil
}

// RemoveProduct deletes a product. Deletion is all-or-nothing: a product
// referenced by any invoice line, in any collection, stays.
func (s *Store) RemoveProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stock.Referenced(view{state: s.state}, id) {
		return apperror.NewConflict("product is referenced by invoices and cannot be deleted").
			WithDetail("id", id)
	}

	idx := -1
	for i, p := range s.state.Products {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperror.NewNotFound("product", id)
	}

	s.state.Products = append(s.state.Products[:idx], s.state.Products[idx+1:]...)
	if err := s.persist(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "product removed", "id", id)
	return nil
}

// --- Invoices ---

// UpsertInvoice creates or replaces an invoice in the given collection.
// A blank id creates; otherwise the matching record is replaced wholesale.
// Sale invoices are availability-checked here, under the mutex, against the
// live state: the check and the mutation are one critical section, so two
// concurrent sales cannot both pass against the same stock. Edits exclude
// the invoice being replaced.
func (s *Store) UpsertInvoice(ctx context.Context, kind invoice.Kind, inv invoice.Invoice) (invoice.Invoice, error) {
	if err := inv.Validate(); err != nil {
		return invoice.Invoice{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if kind.IsSale() {
		if err := stock.ValidateAvailability(view{state: s.state}, inv.Items, inv.ID); err != nil {
			return invoice.Invoice{}, err
		}
	}

	coll := s.state.collection(kind)

	if inv.ID == "" {
		created := invoice.New(inv.Date, inv.Items)
		*coll = append(*coll, created)
		if err := s.persist(ctx); err != nil {
			return created, err
		}
		logger.Info(ctx, "invoice created", "kind", kind.String(), "id", created.ID)
		return created, nil
	}

	idx := -1
	for i, existing := range *coll {
		if existing.ID == inv.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return invoice.Invoice{}, apperror.NewNotFound("invoice", inv.ID)
	}

	(*coll)[idx] = inv
	if err := s.persist(ctx); err != nil {
		return inv, err
	}

	logger.Info(ctx, "invoice updated", "kind", kind.String(), "id", inv.ID)
	return inv, nil
}

// RemoveInvoice deletes an invoice unconditionally. The ledger is derived on
// demand, so no backward stock check applies.
func (s *Store) RemoveInvoice(ctx context.Context, kind invoice.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.state.collection(kind)

	idx := -1
	for i, existing := range *coll {
		if existing.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperror.NewNotFound("invoice", id)
	}

	*coll = append((*coll)[:idx], (*coll)[idx+1:]...)
	if err := s.persist(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "invoice removed", "kind", kind.String(), "id", id)
	return nil
}

// --- Settings ---

// UpdateRemoteSettings records the remote document coordinates.
func (s *Store) UpdateRemoteSettings(ctx context.Context, gistID, gistURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gistID != "" {
		s.state.Settings.GistID = gistID
	}
	if gistURL != "" {
		s.state.Settings.GistURL = gistURL
	}
	if s.state.Settings.GistFilename == "" {
		s.state.Settings.GistFilename = DefaultFilename
	}

	return s.persist(ctx)
}

// --- Backup / restore ---

// Backup assembles the remote-sync document from the current collections.
func (s *Store) Backup() Backup {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state.clone()
	return Backup{
		Products:      st.Products,
		InputInvoices: st.InputInvoices,
		Sales151:      st.Sales151,
		Sales168:      st.Sales168,
		Timestamp:     time.Now().UTC(),
	}
}

// RestoreBackup merges a pulled document into the state, remote overriding
// local per top-level collection. Collections absent from the document keep
// their local contents; settings always stay local. Accept-or-reject is
// atomic: the state mutates only after the document has fully decoded.
func (s *Store) RestoreBackup(ctx context.Context, b Backup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Products != nil {
		s.state.Products = b.Products
	}
	if b.InputInvoices != nil {
		s.state.InputInvoices = b.InputInvoices
	}
	if b.Sales151 != nil {
		s.state.Sales151 = b.Sales151
	}
	if b.Sales168 != nil {
		s.state.Sales168 = b.Sales168
	}

	if err := s.persist(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "remote backup restored",
		"products", len(s.state.Products),
		"input_invoices", len(s.state.InputInvoices),
	)
	return nil
}
