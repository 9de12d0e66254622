package inventory

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// AvailabilityItem cantidad requerida de un producto.
type AvailabilityItem struct {
	ProductUnitID    string
	RequiredQuantity decimal.Decimal
}

// AvailabilityResult resultado de la consulta de disponibilidad.
type AvailabilityResult struct {
	AllAvailable bool
	Shortages    []domain.Shortage
}

// AvailabilityChecker consulta de solo lectura, sin bloqueos. Es orientativa: el saldo puede
// cambiar antes de aprobar, por eso la aprobación de salidas vuelve a verificar con la fila bloqueada.
type AvailabilityChecker struct {
	balances repository.StockBalanceRepository
}

// NewAvailabilityChecker construye el verificador.
func NewAvailabilityChecker(balances repository.StockBalanceRepository) *AvailabilityChecker {
	return &AvailabilityChecker{balances: balances}
}

// CheckAvailability disponible = existencia - reservado (fila ausente = 0).
// Sin locationID se considera toda la bodega. Productos repetidos se suman.
func (c *AvailabilityChecker) CheckAvailability(ctx context.Context, items []AvailabilityItem, warehouseID, locationID string) (*AvailabilityResult, error) {
	if warehouseID == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	reqs := make([]domaininv.Requirement, 0, len(items))
	for _, it := range items {
		if it.ProductUnitID == "" || !it.RequiredQuantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		if err := checkQuantity(it.RequiredQuantity); err != nil {
			return nil, err
		}
		reqs = append(reqs, domaininv.Requirement{ProductUnitID: it.ProductUnitID, Quantity: it.RequiredQuantity})
	}
	reqs = domaininv.SumRequirements(reqs)

	available := make(map[string]decimal.Decimal, len(reqs))
	for _, r := range reqs {
		var (
			b   *entity.StockBalance
			err error
		)
		if locationID == "" {
			b, err = c.balances.SumByWarehouse(ctx, r.ProductUnitID, warehouseID)
		} else {
			b, err = c.balances.Get(ctx, entity.BalanceKey{ProductUnitID: r.ProductUnitID, WarehouseID: warehouseID, StockLocationID: locationID})
		}
		if err != nil {
			return nil, err
		}
		available[r.ProductUnitID] = b.AvailableQuantity()
	}

	shortages := domaininv.ComputeShortages(reqs, func(id string) decimal.Decimal { return available[id] })
	return &AvailabilityResult{AllAvailable: len(shortages) == 0, Shortages: shortages}, nil
}
