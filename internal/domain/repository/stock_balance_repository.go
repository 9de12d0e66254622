package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// StockBalanceRepository puerto del ledger de saldos por (producto, bodega, ubicación).
// Get nunca falla por fila inexistente: devuelve saldo en cero.
type StockBalanceRepository interface {
	Get(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	// Solo tiene sentido con un repositorio atado a una transacción.
	GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error)
	Upsert(ctx context.Context, balance *entity.StockBalance) error
	// SumByWarehouse agrega todas las ubicaciones del producto en la bodega.
	SumByWarehouse(ctx context.Context, productUnitID, warehouseID string) (*entity.StockBalance, error)
}
