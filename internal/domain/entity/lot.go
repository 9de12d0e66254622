package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot lote de entrada. Se crea una sola vez al aprobar el documento de entrada y no se modifica.
type Lot struct {
	ID                  string
	LotNumber           string // único por (ProductUnitID, WarehouseID)
	ProductUnitID       string
	WarehouseID         string
	StockLocationID     string
	ExpiryDate          time.Time
	ManufacturingDate   time.Time
	SupplierName        string
	SupplierBatchNumber string
	InitialQuantity     decimal.Decimal
	DocumentID          string // documento de entrada que lo originó
	CreatedAt           time.Time
}
