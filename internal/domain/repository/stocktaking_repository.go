package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// SessionFilter filtros opcionales del listado de tomas físicas.
type SessionFilter struct {
	WarehouseID string
	Status      entity.StocktakingStatus
	Limit       int
	Offset      int
}

// StocktakingRepository persistencia del agregado sesión + ítems.
type StocktakingRepository interface {
	Create(ctx context.Context, session *entity.StocktakingSession) error
	// GetByID devuelve nil, nil si no existe. Incluye ítems ordenados por posición.
	GetByID(ctx context.Context, id string) (*entity.StocktakingSession, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StocktakingSession, error)
	Update(ctx context.Context, session *entity.StocktakingSession) error
	// SaveItem inserta o actualiza el ítem por ID.
	SaveItem(ctx context.Context, item *entity.CheckItem) error
	List(ctx context.Context, filter SessionFilter) ([]*entity.StocktakingSession, int, error)
}
