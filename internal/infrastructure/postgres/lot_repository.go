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

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo registro de lotes sobre PostgreSQL. La unicidad (producto, bodega, lote) la
// garantiza un índice único.
type LotRepo struct {
	q Querier
}

func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, lot_number, product_unit_id, warehouse_id, stock_location_id, expiry_date, manufacturing_date,
	supplier_name, supplier_batch_number, initial_quantity, document_id, created_at`

func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	query := `INSERT INTO lots (` + lotColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.LotNumber, lot.ProductUnitID, lot.WarehouseID, lot.StockLocationID, lot.ExpiryDate, lot.ManufacturingDate,
		nullIfEmpty(lot.SupplierName), nullIfEmpty(lot.SupplierBatchNumber), lot.InitialQuantity, nullIfEmpty(lot.DocumentID), lot.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateLot
		}
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

func (r *LotRepo) Get(ctx context.Context, productUnitID, warehouseID, lotNumber string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots
		WHERE product_unit_id = $1 AND warehouse_id = $2 AND lot_number = $3`
	lot, err := scanLot(r.q.QueryRow(ctx, query, productUnitID, warehouseID, lotNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

// List ordena por vencimiento (FEFO).
func (r *LotRepo) List(ctx context.Context, productUnitID, warehouseID string) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots
		WHERE product_unit_id = $1 AND warehouse_id = $2
		ORDER BY expiry_date, lot_number`
	rows, err := r.q.Query(ctx, query, productUnitID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var (
		l                                   entity.Lot
		supplier, supplierBatch, documentID *string
	)
	if err := row.Scan(&l.ID, &l.LotNumber, &l.ProductUnitID, &l.WarehouseID, &l.StockLocationID, &l.ExpiryDate, &l.ManufacturingDate,
		&supplier, &supplierBatch, &l.InitialQuantity, &documentID, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.SupplierName = derefString(supplier)
	l.SupplierBatchNumber = derefString(supplierBatch)
	l.DocumentID = derefString(documentID)
	return &l, nil
}
