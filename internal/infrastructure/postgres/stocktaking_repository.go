package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.StocktakingRepository = (*StocktakingRepo)(nil)

// StocktakingRepo tomas físicas e ítems contados (usable con pool o tx).
type StocktakingRepo struct {
	q Querier
}

// NewStocktakingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStocktakingRepository(q Querier) *StocktakingRepo {
	return &StocktakingRepo{q: q}
}

const sessionColumns = `id, status, warehouse_id, stock_location_id, note, created_by, confirmed_by, cancel_reason,
	created_at, updated_at, started_at, confirmed_at, cancelled_at`

const itemColumns = `id, check_id, position, product_unit_id, system_quantity, actual_quantity, difference, status, note,
	created_at, updated_at`

func (r *StocktakingRepo) Create(ctx context.Context, s *entity.StocktakingSession) error {
	query := `INSERT INTO stocktaking_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Status, s.WarehouseID, s.StockLocationID, nullIfEmpty(s.Note), nullIfEmpty(s.CreatedBy),
		nullIfEmpty(s.ConfirmedBy), nullIfEmpty(s.CancelReason), s.CreatedAt, s.UpdatedAt, s.StartedAt, s.ConfirmedAt, s.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("create stocktaking session: %w", err)
	}
	return nil
}

func (r *StocktakingRepo) GetByID(ctx context.Context, id string) (*entity.StocktakingSession, error) {
	return r.get(ctx, id, false)
}

func (r *StocktakingRepo) GetForUpdate(ctx context.Context, id string) (*entity.StocktakingSession, error) {
	return r.get(ctx, id, true)
}

func (r *StocktakingRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.StocktakingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM stocktaking_sessions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	s, err := scanSession(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stocktaking session: %w", err)
	}

	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM stocktaking_items WHERE check_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list stocktaking items: %w", err)
	}
	defer rows.Close()
	s.Items = []entity.CheckItem{}
	for rows.Next() {
		var (
			it   entity.CheckItem
			note *string
		)
		if err := rows.Scan(&it.ID, &it.CheckID, &it.Position, &it.ProductUnitID, &it.SystemQuantity, &it.ActualQuantity,
			&it.Difference, &it.Status, &note, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stocktaking item: %w", err)
		}
		it.Note = derefString(note)
		s.Items = append(s.Items, it)
	}
	return s, rows.Err()
}

func (r *StocktakingRepo) Update(ctx context.Context, s *entity.StocktakingSession) error {
	query := `
		UPDATE stocktaking_sessions
		SET status = $2, note = $3, confirmed_by = $4, cancel_reason = $5, updated_at = $6,
			started_at = $7, confirmed_at = $8, cancelled_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Status, nullIfEmpty(s.Note), nullIfEmpty(s.ConfirmedBy), nullIfEmpty(s.CancelReason),
		s.UpdatedAt, s.StartedAt, s.ConfirmedAt, s.CancelledAt)
	if err != nil {
		return fmt.Errorf("update stocktaking session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveItem inserta o actualiza el ítem (un recuento reemplaza foto, conteo y estado).
func (r *StocktakingRepo) SaveItem(ctx context.Context, it *entity.CheckItem) error {
	query := `
		INSERT INTO stocktaking_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			system_quantity = EXCLUDED.system_quantity,
			actual_quantity = EXCLUDED.actual_quantity,
			difference = EXCLUDED.difference,
			status = EXCLUDED.status,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, it.ID, it.CheckID, it.Position, it.ProductUnitID, it.SystemQuantity, it.ActualQuantity,
		it.Difference, it.Status, nullIfEmpty(it.Note), it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save stocktaking item: %w", err)
	}
	return nil
}

func (r *StocktakingRepo) List(ctx context.Context, f repository.SessionFilter) ([]*entity.StocktakingSession, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	pos := 1
	if f.WarehouseID != "" {
		where += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, f.WarehouseID)
		pos++
	}
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stocktaking_sessions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stocktaking sessions: %w", err)
	}

	query := `SELECT ` + sessionColumns + ` FROM stocktaking_sessions` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stocktaking sessions: %w", err)
	}
	defer rows.Close()
	list := []*entity.StocktakingSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stocktaking session: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

func scanSession(row pgx.Row) (*entity.StocktakingSession, error) {
	var (
		s                                    entity.StocktakingSession
		note, createdBy, confirmedBy, reason *string
	)
	if err := row.Scan(&s.ID, &s.Status, &s.WarehouseID, &s.StockLocationID, &note, &createdBy, &confirmedBy, &reason,
		&s.CreatedAt, &s.UpdatedAt, &s.StartedAt, &s.ConfirmedAt, &s.CancelledAt); err != nil {
		return nil, err
	}
	s.Note = derefString(note)
	s.CreatedBy = derefString(createdBy)
	s.ConfirmedBy = derefString(confirmedBy)
	s.CancelReason = derefString(reason)
	return &s, nil
}
