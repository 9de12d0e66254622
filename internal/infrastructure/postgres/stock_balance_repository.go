package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo ledger de saldos sobre PostgreSQL (usable con pool o tx).
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

const balanceColumns = `product_unit_id, warehouse_id, stock_location_id, quantity, reserved_quantity, updated_at`

// Get obtiene el saldo de la fila; si no existe devuelve saldo en cero.
func (r *StockBalanceRepo) Get(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + `
		FROM stock_balances
		WHERE product_unit_id = $1 AND warehouse_id = $2 AND stock_location_id = $3`
	b, err := scanBalance(r.q.QueryRow(ctx, query, key.ProductUnitID, key.WarehouseID, key.StockLocationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.NewZeroBalance(key), nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return b, nil
}

// GetForUpdate crea la fila en cero si hace falta y la bloquea (SELECT FOR UPDATE) hasta el
// fin de la transacción, así dos transacciones sobre una fila nueva también se serializan.
// Si la transacción termina en rollback la fila creada desaparece con ella.
func (r *StockBalanceRepo) GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	insert := `
		INSERT INTO stock_balances (product_unit_id, warehouse_id, stock_location_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, 0, 0, now())
		ON CONFLICT (product_unit_id, warehouse_id, stock_location_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, key.ProductUnitID, key.WarehouseID, key.StockLocationID); err != nil {
		return nil, fmt.Errorf("ensure stock balance row: %w", err)
	}
	query := `SELECT ` + balanceColumns + `
		FROM stock_balances
		WHERE product_unit_id = $1 AND warehouse_id = $2 AND stock_location_id = $3
		FOR UPDATE`
	b, err := scanBalance(r.q.QueryRow(ctx, query, key.ProductUnitID, key.WarehouseID, key.StockLocationID))
	if err != nil {
		return nil, fmt.Errorf("get stock balance for update: %w", err)
	}
	return b, nil
}

// Upsert inserta o actualiza existencia y reservado de la fila.
func (r *StockBalanceRepo) Upsert(ctx context.Context, b *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (product_unit_id, warehouse_id, stock_location_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_unit_id, warehouse_id, stock_location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved_quantity = EXCLUDED.reserved_quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, b.ProductUnitID, b.WarehouseID, b.StockLocationID, b.Quantity, b.ReservedQuantity, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert stock balance: %w", err)
	}
	return nil
}

// SumByWarehouse agrega las ubicaciones del producto en la bodega.
func (r *StockBalanceRepo) SumByWarehouse(ctx context.Context, productUnitID, warehouseID string) (*entity.StockBalance, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(reserved_quantity), 0), COALESCE(MAX(updated_at), 'epoch'::timestamptz)
		FROM stock_balances
		WHERE product_unit_id = $1 AND warehouse_id = $2`
	b := entity.NewZeroBalance(entity.BalanceKey{ProductUnitID: productUnitID, WarehouseID: warehouseID})
	if err := r.q.QueryRow(ctx, query, productUnitID, warehouseID).Scan(&b.Quantity, &b.ReservedQuantity, &b.UpdatedAt); err != nil {
		return nil, fmt.Errorf("sum stock balance: %w", err)
	}
	return b, nil
}

func scanBalance(row pgx.Row) (*entity.StockBalance, error) {
	var b entity.StockBalance
	if err := row.Scan(&b.ProductUnitID, &b.WarehouseID, &b.StockLocationID, &b.Quantity, &b.ReservedQuantity, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
