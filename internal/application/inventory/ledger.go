package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Ledger consulta de saldos por (producto, bodega, ubicación). Las mutaciones solo ocurren
// dentro de la aprobación de documentos y la confirmación de tomas físicas, con la fila
// bloqueada en la transacción del flujo (applyDelta, setAbsolute).
type Ledger struct {
	balances repository.StockBalanceRepository
}

// NewLedger construye el ledger sobre el repositorio de lectura (fuera de tx).
func NewLedger(balances repository.StockBalanceRepository) *Ledger {
	return &Ledger{balances: balances}
}

// GetBalance devuelve el saldo de la fila; sin ubicación suma todas las ubicaciones de la bodega.
// Una fila inexistente devuelve saldo en cero.
func (l *Ledger) GetBalance(ctx context.Context, productUnitID, warehouseID, locationID string) (*entity.StockBalance, error) {
	if productUnitID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if locationID == "" {
		return l.balances.SumByWarehouse(ctx, productUnitID, warehouseID)
	}
	return l.balances.Get(ctx, entity.BalanceKey{ProductUnitID: productUnitID, WarehouseID: warehouseID, StockLocationID: locationID})
}

func validKey(k entity.BalanceKey) bool {
	return k.ProductUnitID != "" && k.WarehouseID != "" && k.StockLocationID != ""
}

// checkQuantity rechaza cantidades que la columna NUMERIC(18,4) redondearía o no podría guardar.
func checkQuantity(q decimal.Decimal) error {
	if !domaininv.ValidQuantity(q) {
		return fmt.Errorf("%w: cantidad %s fuera de rango o con más de %d decimales", domain.ErrInvalidInput, q, domaininv.QuantityScale)
	}
	return nil
}

// movementSource origen de una mutación para la bitácora.
type movementSource struct {
	Type  string
	ID    string
	Actor string
}

// lockRows bloquea las filas en orden de clave para que dos aprobaciones concurrentes
// sobre filas compartidas no se bloqueen mutuamente.
func lockRows(ctx context.Context, balances repository.StockBalanceRepository, keys []entity.BalanceKey) (map[entity.BalanceKey]*entity.StockBalance, error) {
	out := make(map[entity.BalanceKey]*entity.StockBalance, len(keys))
	for _, k := range domaininv.SortedKeys(keys) {
		b, err := balances.GetForUpdate(ctx, k)
		if err != nil {
			return nil, err
		}
		out[k] = b
	}
	return out, nil
}

// applyDelta suma delta (con signo) a la fila dentro de la transacción del caller.
// Devuelve NegativeStockError si la existencia quedaría negativa o por debajo de lo reservado.
func applyDelta(ctx context.Context, r Repos, key entity.BalanceKey, delta decimal.Decimal, src movementSource, now time.Time) (*entity.StockBalance, error) {
	if !validKey(key) || delta.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if err := checkQuantity(delta); err != nil {
		return nil, err
	}
	b, err := r.Balances.GetForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}
	newQty := b.Quantity.Add(delta)
	if newQty.IsNegative() || newQty.LessThan(b.ReservedQuantity) {
		return nil, &domain.NegativeStockError{
			ProductUnitID:   key.ProductUnitID,
			WarehouseID:     key.WarehouseID,
			StockLocationID: key.StockLocationID,
			Current:         b.Quantity,
			Delta:           delta,
		}
	}
	b.Quantity = newQty
	b.UpdatedAt = now
	if err := r.Balances.Upsert(ctx, b); err != nil {
		return nil, err
	}
	if err := recordMovement(ctx, r.Movements, b, delta, src, now); err != nil {
		return nil, err
	}
	return b, nil
}

// setAbsolute fija la existencia y devuelve el delta aplicado. Si lo contado queda por
// debajo de lo reservado, la reserva se recorta a la existencia.
func setAbsolute(ctx context.Context, r Repos, key entity.BalanceKey, quantity decimal.Decimal, src movementSource, now time.Time) (*entity.StockBalance, decimal.Decimal, error) {
	if !validKey(key) || quantity.IsNegative() {
		return nil, decimal.Zero, domain.ErrInvalidInput
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, decimal.Zero, err
	}
	b, err := r.Balances.GetForUpdate(ctx, key)
	if err != nil {
		return nil, decimal.Zero, err
	}
	delta := quantity.Sub(b.Quantity)
	b.Quantity = quantity
	if b.ReservedQuantity.GreaterThan(quantity) {
		b.ReservedQuantity = quantity
	}
	b.UpdatedAt = now
	if err := r.Balances.Upsert(ctx, b); err != nil {
		return nil, decimal.Zero, err
	}
	if err := recordMovement(ctx, r.Movements, b, delta, src, now); err != nil {
		return nil, decimal.Zero, err
	}
	return b, delta, nil
}

func recordMovement(ctx context.Context, movements repository.StockMovementRepository, b *entity.StockBalance, delta decimal.Decimal, src movementSource, now time.Time) error {
	mov := &entity.StockMovement{
		ID:              uuid.New().String(),
		SourceType:      src.Type,
		SourceID:        src.ID,
		ProductUnitID:   b.ProductUnitID,
		WarehouseID:     b.WarehouseID,
		StockLocationID: b.StockLocationID,
		Delta:           delta,
		QuantityAfter:   b.Quantity,
		CreatedAt:       now,
		CreatedBy:       src.Actor,
	}
	if err := movements.Create(ctx, mov); err != nil {
		return fmt.Errorf("registrar movimiento: %w", err)
	}
	return nil
}
