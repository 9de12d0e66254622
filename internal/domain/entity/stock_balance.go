package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceKey identidad de una fila del ledger: (unidad de producto, bodega, ubicación).
type BalanceKey struct {
	ProductUnitID   string
	WarehouseID     string
	StockLocationID string
}

// Less orden total usado para bloquear filas siempre en la misma secuencia.
func (k BalanceKey) Less(o BalanceKey) bool {
	if c := strings.Compare(k.WarehouseID, o.WarehouseID); c != 0 {
		return c < 0
	}
	if c := strings.Compare(k.StockLocationID, o.StockLocationID); c != 0 {
		return c < 0
	}
	return k.ProductUnitID < o.ProductUnitID
}

// StockBalance saldo por (producto, bodega, ubicación). Las filas en cero se conservan.
type StockBalance struct {
	ProductUnitID    string
	WarehouseID      string
	StockLocationID  string
	Quantity         decimal.Decimal // existencia física, nunca negativa
	ReservedQuantity decimal.Decimal // comprometido, nunca mayor que Quantity
	UpdatedAt        time.Time
}

// NewZeroBalance saldo vacío para una fila que aún no existe.
func NewZeroBalance(key BalanceKey) *StockBalance {
	return &StockBalance{
		ProductUnitID:    key.ProductUnitID,
		WarehouseID:      key.WarehouseID,
		StockLocationID:  key.StockLocationID,
		Quantity:         decimal.Zero,
		ReservedQuantity: decimal.Zero,
	}
}

// Key devuelve la identidad de la fila.
func (b *StockBalance) Key() BalanceKey {
	return BalanceKey{ProductUnitID: b.ProductUnitID, WarehouseID: b.WarehouseID, StockLocationID: b.StockLocationID}
}

// AvailableQuantity se recalcula siempre: existencia menos reservado.
func (b *StockBalance) AvailableQuantity() decimal.Decimal {
	return b.Quantity.Sub(b.ReservedQuantity)
}
