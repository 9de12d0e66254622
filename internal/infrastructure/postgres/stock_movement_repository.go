package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo bitácora de mutaciones del ledger (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento dentro de la transacción que mutó la fila.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, source_type, source_id, product_unit_id, warehouse_id, stock_location_id, delta, quantity_after, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.SourceType, m.SourceID, m.ProductUnitID, m.WarehouseID, m.StockLocationID,
		m.Delta, m.QuantityAfter, m.CreatedAt, nullIfEmpty(m.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListBySource movimientos generados por un documento o una sesión, en orden de registro.
func (r *StockMovementRepo) ListBySource(ctx context.Context, sourceType, sourceID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, source_type, source_id, product_unit_id, warehouse_id, stock_location_id, delta, quantity_after, created_at, created_by
		FROM stock_movements WHERE source_type = $1 AND source_id = $2
		ORDER BY created_at, seq`
	rows, err := r.q.Query(ctx, query, sourceType, sourceID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m         entity.StockMovement
			createdBy *string
		)
		if err := rows.Scan(&m.ID, &m.SourceType, &m.SourceID, &m.ProductUnitID, &m.WarehouseID, &m.StockLocationID,
			&m.Delta, &m.QuantityAfter, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.CreatedBy = derefString(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}
