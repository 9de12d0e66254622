package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AvailabilityItemRequest cantidad requerida de un producto.
type AvailabilityItemRequest struct {
	ProductUnitID    string          `json:"product_unit_id" validate:"required"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
}

// AvailabilityRequest body para POST /api/inventory/availability. Sin ubicación se
// considera toda la bodega.
type AvailabilityRequest struct {
	WarehouseID     string                    `json:"warehouse_id" validate:"required"`
	StockLocationID string                    `json:"stock_location_id,omitempty"`
	Items           []AvailabilityItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ShortageDTO faltante de un producto.
type ShortageDTO struct {
	ProductUnitID string          `json:"product_unit_id"`
	Required      decimal.Decimal `json:"required"`
	Available     decimal.Decimal `json:"available"`
	Missing       decimal.Decimal `json:"missing"`
}

// AvailabilityResponse resultado orientativo; la aprobación vuelve a verificar.
type AvailabilityResponse struct {
	AllAvailable bool          `json:"all_available"`
	Shortages    []ShortageDTO `json:"shortages"`
}

// BalanceQuery parámetros de GET /api/inventory/balances.
type BalanceQuery struct {
	ProductUnitID   string `query:"product_unit_id" validate:"required"`
	WarehouseID     string `query:"warehouse_id" validate:"required"`
	StockLocationID string `query:"stock_location_id"`
}

type BalanceResponse struct {
	ProductUnitID     string          `json:"product_unit_id"`
	WarehouseID       string          `json:"warehouse_id"`
	StockLocationID   string          `json:"stock_location_id,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	UpdatedAt         *time.Time      `json:"updated_at,omitempty"`
}

// LotQuery parámetros de GET /api/inventory/lots.
type LotQuery struct {
	ProductUnitID string `query:"product_unit_id" validate:"required"`
	WarehouseID   string `query:"warehouse_id" validate:"required"`
}

type LotResponse struct {
	ID                  string          `json:"id"`
	LotNumber           string          `json:"lot_number"`
	ProductUnitID       string          `json:"product_unit_id"`
	WarehouseID         string          `json:"warehouse_id"`
	StockLocationID     string          `json:"stock_location_id"`
	ManufacturingDate   string          `json:"manufacturing_date"`
	ExpiryDate          string          `json:"expiry_date"`
	SupplierName        string          `json:"supplier_name,omitempty"`
	SupplierBatchNumber string          `json:"supplier_batch_number,omitempty"`
	InitialQuantity     decimal.Decimal `json:"initial_quantity"`
	DocumentID          string          `json:"document_id,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}
