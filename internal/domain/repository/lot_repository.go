package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// LotRepository registro de lotes, solo inserción.
type LotRepository interface {
	// Create devuelve domain.ErrDuplicateLot si el lote ya existe para (producto, bodega).
	Create(ctx context.Context, lot *entity.Lot) error
	Get(ctx context.Context, productUnitID, warehouseID, lotNumber string) (*entity.Lot, error)
	List(ctx context.Context, productUnitID, warehouseID string) ([]*entity.Lot, error)
}
