package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Orígenes de un movimiento del ledger.
const (
	MovementSourceDocument    = "STOCK_DOCUMENT"
	MovementSourceStocktaking = "STOCKTAKING"
)

// StockMovement registro de auditoría de cada mutación del ledger (delta con signo).
type StockMovement struct {
	ID              string
	SourceType      string
	SourceID        string
	ProductUnitID   string
	WarehouseID     string
	StockLocationID string
	Delta           decimal.Decimal // positivo entrada, negativo salida
	QuantityAfter   decimal.Decimal
	CreatedAt       time.Time
	CreatedBy       string
}
