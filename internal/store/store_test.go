package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambar/internal/core/apperror"
	"ambar/internal/domain/documents/invoice"
	"ambar/internal/domain/registers/stock"
)

// fakeSnapshots is an in-memory SnapshotStore with failure injection.
type fakeSnapshots struct {
	data     []byte
	saves    int
	failSave bool
}

func (f *fakeSnapshots) Load(ctx context.Context) ([]byte, bool, error) {
	if f.data == nil {
		return nil, false, nil
	}
	return f.data, true, nil
}

func (f *fakeSnapshots) Save(ctx context.Context, data []byte) error {
	if f.failSave {
		return errors.New("disk full")
	}
	f.saves++
	f.data = append([]byte(nil), data...)
	return nil
}

func newStore(t *testing.T) (*Store, *fakeSnapshots) {
	t.Helper()
	snaps := &fakeSnapshots{}
	s, err := Open(context.Background(), snaps)
	require.NoError(t, err)
	return s, snaps
}

func TestOpenEmptyAndReload(t *testing.T) {
	ctx := context.Background()
	s, snaps := newStore(t)

	p, err := s.AddProduct(ctx, "Widget")
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	// A second store over the same boundary sees the persisted state.
	reopened, err := Open(ctx, snaps)
	require.NoError(t, err)
	assert.Len(t, reopened.Read().Products(), 1)
	assert.Equal(t, DefaultFilename, reopened.Settings().GistFilename)
}

func TestAddProduct(t *testing.T) {
	ctx := context.Background()
	s, snaps := newStore(t)

	_, err := s.AddProduct(ctx, "Widget")
	require.NoError(t, err)
	assert.Equal(t, 1, snaps.saves)

	_, err = s.AddProduct(ctx, "  ")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = s.AddProduct(ctx, "Widget")
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))

	// Name uniqueness is exact and case-sensitive.
	_, err = s.AddProduct(ctx, "widget")
	assert.NoError(t, err)
}

func TestRenameProduct(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	a, _ := s.AddProduct(ctx, "A")
	_, _ = s.AddProduct(ctx, "B")

	// Renaming to its own current name succeeds.
	_, err := s.RenameProduct(ctx, a.ID, "A")
	assert.NoError(t, err)

	_, err = s.RenameProduct(ctx, a.ID, "B")
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))

	_, err = s.RenameProduct(ctx, "missing", "C")
	assert.True(t, apperror.IsNotFound(err))

	renamed, err := s.RenameProduct(ctx, a.ID, "C")
	require.NoError(t, err)
	assert.Equal(t, "C", renamed.Name)
}

func TestRemoveProduct(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	a, _ := s.AddProduct(ctx, "A")
	b, _ := s.AddProduct(ctx, "B")

	_, err := s.UpsertInvoice(ctx, invoice.KindInput, invoice.Invoice{
		Date:  "1404/08/16",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	err = s.RemoveProduct(ctx, a.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
	assert.Len(t, s.Read().Products(), 2)

	require.NoError(t, s.RemoveProduct(ctx, b.ID))
	assert.Len(t, s.Read().Products(), 1)

	err = s.RemoveProduct(ctx, b.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpsertInvoice(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	a, _ := s.AddProduct(ctx, "A")
	_, err := s.UpsertInvoice(ctx, invoice.KindInput, invoice.Invoice{
		Date:  "1404/08/01",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 20}},
	})
	require.NoError(t, err)

	created, err := s.UpsertInvoice(ctx, invoice.KindSale151, invoice.Invoice{
		Date:  "1404/08/16",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	// Wholesale replacement on edit.
	created.Items = []invoice.Line{{ProductID: a.ID, Quantity: 9}}
	created.Date = "1404/09/01"
	updated, err := s.UpsertInvoice(ctx, invoice.KindSale151, created)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	got := s.Read().Invoices(invoice.KindSale151)
	require.Len(t, got, 1)
	assert.Equal(t, 9, got[0].Items[0].Quantity)
	assert.Equal(t, "1404/09/01", got[0].Date)

	_, err = s.UpsertInvoice(ctx, invoice.KindSale151, invoice.Invoice{
		ID:    "missing",
		Date:  "1404/08/16",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 1}},
	})
	assert.True(t, apperror.IsNotFound(err))

	_, err = s.UpsertInvoice(ctx, invoice.KindSale151, invoice.Invoice{
		Date:  "1404/13/01",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 1}},
	})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = s.UpsertInvoice(ctx, invoice.KindSale151, invoice.Invoice{Date: "1404/08/16"})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestRemoveInvoice(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	a, _ := s.AddProduct(ctx, "A")
	inv, _ := s.UpsertInvoice(ctx, invoice.KindInput, invoice.Invoice{
		Date:  "1404/08/16",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 5}},
	})

	require.NoError(t, s.RemoveInvoice(ctx, invoice.KindInput, inv.ID))
	assert.Empty(t, s.Read().Invoices(invoice.KindInput))

	err := s.RemoveInvoice(ctx, invoice.KindInput, inv.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestLedgerOverStore(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	a, _ := s.AddProduct(ctx, "A")
	_, err := s.UpsertInvoice(ctx, invoice.KindInput, invoice.Invoice{
		Date:  "1404/08/01",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 10}},
	})
	require.NoError(t, err)

	require.NoError(t, stock.ValidateAvailability(s.Read(), []invoice.Line{{ProductID: a.ID, Quantity: 7}}, ""))
	_, err = s.UpsertInvoice(ctx, invoice.KindSale151, invoice.Invoice{
		Date:  "1404/08/02",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 7}},
	})
	require.NoError(t, err)

	err = stock.ValidateAvailability(s.Read(), []invoice.Line{{ProductID: a.ID, Quantity: 4}}, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))

	snaps := stock.ComputeInventory(s.Read())
	require.Len(t, snaps, 1)
	assert.Equal(t, 3, snaps[0].Stock)
}

func TestUpsertSaleChecksAvailability(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	a, _ := s.AddProduct(ctx, "A")
	_, err := s.UpsertInvoice(ctx, invoice.KindInput, invoice.Invoice{
		Date:  "1404/08/01",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 10}},
	})
	require.NoError(t, err)

	sale, err := s.UpsertInvoice(ctx, invoice.KindSale151, invoice.Invoice{
		Date:  "1404/08/02",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 7}},
	})
	require.NoError(t, err)

	// 3 left; a sale of 4 is rejected and not recorded.
	_, err = s.UpsertInvoice(ctx, invoice.KindSale168, invoice.Invoice{
		Date:  "1404/08/03",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 4}},
	})
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
	assert.Empty(t, s.Read().Invoices(invoice.KindSale168))

	// An edit excludes itself: re-saving the same quantity passes,
	// one unit more does not.
	sale.Items = []invoice.Line{{ProductID: a.ID, Quantity: 7}}
	_, err = s.UpsertInvoice(ctx, invoice.KindSale151, sale)
	assert.NoError(t, err)

	sale.Items = []invoice.Line{{ProductID: a.ID, Quantity: 11}}
	_, err = s.UpsertInvoice(ctx, invoice.KindSale151, sale)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))

	// Input invoices are never stock-limited.
	_, err = s.UpsertInvoice(ctx, invoice.KindInput, invoice.Invoice{
		Date:  "1404/08/04",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 1000}},
	})
	assert.NoError(t, err)
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	a, _ := s.AddProduct(ctx, "A")
	_, err := s.UpsertInvoice(ctx, invoice.KindInput, invoice.Invoice{
		Date:  "1404/08/01",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 10}},
	})
	require.NoError(t, err)

	// Stock covers exactly one of these sales. However the goroutines
	// interleave, the check and the mutation share one critical section,
	// so only one may commit.
	const workers = 8
	var wg sync.WaitGroup
	var accepted atomic.Int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpsertInvoice(ctx, invoice.KindSale151, invoice.Invoice{
				Date:  "1404/08/02",
				Items: []invoice.Line{{ProductID: a.ID, Quantity: 10}},
			})
			if err == nil {
				accepted.Add(1)
				return
			}
			assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())

	snaps := stock.ComputeInventory(s.Read())
	require.Len(t, snaps, 1)
	assert.Equal(t, 0, snaps[0].Stock)
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	s, snaps := newStore(t)

	snaps.failSave = true
	_, err := s.AddProduct(ctx, "Widget")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePersistence))

	// The in-memory edit survives so the user can retry saving.
	assert.Len(t, s.Read().Products(), 1)

	// The durable snapshot is still the previous one: a reload sees nothing.
	reopened, err := Open(ctx, snaps)
	require.NoError(t, err)
	assert.Empty(t, reopened.Read().Products())

	// Retry succeeds once the boundary recovers.
	snaps.failSave = false
	_, err = s.AddProduct(ctx, "Gadget")
	require.NoError(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	a, _ := s.AddProduct(ctx, "A")
	_, err := s.UpsertInvoice(ctx, invoice.KindInput, invoice.Invoice{
		Date:  "1404/08/16",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 10}},
	})
	require.NoError(t, err)
	_, err = s.UpsertInvoice(ctx, invoice.KindSale168, invoice.Invoice{
		Date:  "1404/08/17",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	exported, err := s.Export()
	require.NoError(t, err)

	other, _ := newStore(t)
	require.NoError(t, other.Import(ctx, exported))

	reExported, err := other.Export()
	require.NoError(t, err)
	assert.JSONEq(t, string(exported), string(reExported))
}

func TestImportRejectsMissingCollections(t *testing.T) {
	ctx := context.Background()
	s, snaps := newStore(t)

	_, err := s.AddProduct(ctx, "Keep")
	require.NoError(t, err)
	before := append([]byte(nil), snaps.data...)

	// sales168 missing.
	doc := []byte(`{"products":[],"inputInvoices":[],"sales151":[]}`)
	err = s.Import(ctx, doc)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	err = s.Import(ctx, []byte("not json"))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	// Local state is byte-for-byte unchanged.
	assert.Len(t, s.Read().Products(), 1)
	assert.Equal(t, before, snaps.data)
}

func TestImportOverwritesFieldByField(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.AddProduct(ctx, "Old")
	require.NoError(t, err)
	require.NoError(t, s.UpdateRemoteSettings(ctx, "gist-1", "https://example.invalid/g/1"))

	doc := map[string]any{
		"products":      []map[string]any{{"id": "np", "name": "New"}},
		"inputInvoices": []any{},
		"sales151":      []any{},
		"sales168":      []any{},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	require.NoError(t, s.Import(ctx, raw))

	products := s.Read().Products()
	require.Len(t, products, 1)
	assert.Equal(t, "New", products[0].Name)

	// Settings were absent from the document, so the local ones survive.
	assert.Equal(t, "gist-1", s.Settings().GistID)
}

func TestBackupRestore(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	a, _ := s.AddProduct(ctx, "A")
	_, err := s.UpsertInvoice(ctx, invoice.KindInput, invoice.Invoice{
		Date:  "1404/08/16",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 10}},
	})
	require.NoError(t, err)

	b := s.Backup()
	assert.False(t, b.Timestamp.IsZero())
	require.Len(t, b.Products, 1)

	other, _ := newStore(t)
	_, err = other.AddProduct(ctx, "Local only")
	require.NoError(t, err)
	require.NoError(t, other.UpdateRemoteSettings(ctx, "gist-9", ""))

	require.NoError(t, other.RestoreBackup(ctx, b))

	// Remote overrides local per collection; settings stay local.
	products := other.Read().Products()
	require.Len(t, products, 1)
	assert.Equal(t, "A", products[0].Name)
	assert.Equal(t, "gist-9", other.Settings().GistID)
}

func TestReadIsIsolated(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	a, _ := s.AddProduct(ctx, "A")
	_, err := s.UpsertInvoice(ctx, invoice.KindInput, invoice.Invoice{
		Date:  "1404/08/16",
		Items: []invoice.Line{{ProductID: a.ID, Quantity: 10}},
	})
	require.NoError(t, err)

	v := s.Read()
	v.Products()[0].Name = "mutated"
	v.Invoices(invoice.KindInput)[0].Items[0].Quantity = 999

	assert.Equal(t, "A", s.Read().Products()[0].Name)
	assert.Equal(t, 10, s.Read().Invoices(invoice.KindInput)[0].Items[0].Quantity)
}
