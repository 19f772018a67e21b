package stock

import (
	"sort"

	"ambar/internal/domain/catalogs/product"
	"ambar/internal/domain/documents/invoice"
)

// Snapshot is the derived balance for one product. Never persisted;
// recomputed from the current collections on every request.
type Snapshot struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	TotalInput int    `json:"totalInput"`
	TotalSold  int    `json:"totalSold"`
	Stock      int    `json:"stock"`
}

// totalFor sums a product's quantity across one collection.
func totalFor(v View, kind invoice.Kind, productID string) int {
	total := 0
	for _, inv := range v.Invoices(kind) {
		total += inv.QuantityOf(productID)
	}
	return total
}

// Available returns the sellable quantity for one product:
// total received minus total sold across both channels.
func Available(v View, productID string) int {
	available := totalFor(v, invoice.KindInput, productID)
	for _, kind := range invoice.SaleKinds {
		available -= totalFor(v, kind, productID)
	}
	return available
}

// ComputeInventory derives one Snapshot per product, ordered by collated
// product name. Lines referencing a product the catalog does not contain
// never surface here; they are tolerated and contribute nothing.
func ComputeInventory(v View) []Snapshot {
	products := v.Products()

	result := make([]Snapshot, 0, len(products))
	for _, p := range products {
		totalInput := totalFor(v, invoice.KindInput, p.ID)

		totalSold := 0
		for _, kind := range invoice.SaleKinds {
			totalSold += totalFor(v, kind, p.ID)
		}

		result = append(result, Snapshot{
			ProductID:  p.ID,
			Name:       p.Name,
			TotalInput: totalInput,
			TotalSold:  totalSold,
			Stock:      totalInput - totalSold,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return product.Compare(result[i].Name, result[j].Name) < 0
	})

	return result
}
