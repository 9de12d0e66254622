package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// StockMovementRepository bitácora de mutaciones del ledger.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListBySource(ctx context.Context, sourceType, sourceID string) ([]*entity.StockMovement, error)
}
