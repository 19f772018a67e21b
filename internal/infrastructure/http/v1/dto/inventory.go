package dto

import (
	"ambar/internal/domain/registers/stock"
)

// InventoryRow is one derived balance with its presentation band.
type InventoryRow struct {
	ProductID  string      `json:"productId"`
	Name       string      `json:"name"`
	TotalInput int         `json:"totalInput"`
	TotalSold  int         `json:"totalSold"`
	Stock      int         `json:"stock"`
	Level      stock.Level `json:"level"`
}

// InventoryResponse wraps the full reconciliation report.
type InventoryResponse struct {
	Items      []InventoryRow `json:"items"`
	TotalCount int            `json:"totalCount"`
}

// FromSnapshots creates InventoryResponse from register snapshots.
func FromSnapshots(snapshots []stock.Snapshot) InventoryResponse {
	items := make([]InventoryRow, len(snapshots))
	for i, snap := range snapshots {
		items[i] = InventoryRow{
			ProductID:  snap.ProductID,
			Name:       snap.Name,
			TotalInput: snap.TotalInput,
			TotalSold:  snap.TotalSold,
			Stock:      snap.Stock,
			Level:      stock.Classify(snap.Stock),
		}
	}
	return InventoryResponse{Items: items, TotalCount: len(items)}
}
