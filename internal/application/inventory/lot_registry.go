package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// LotInput datos para registrar un lote.
type LotInput struct {
	LotNumber           string
	ProductUnitID       string
	WarehouseID         string
	StockLocationID     string
	ExpiryDate          time.Time
	ManufacturingDate   time.Time
	SupplierName        string
	SupplierBatchNumber string
	InitialQuantity     decimal.Decimal
	DocumentID          string
}

// LotRegistry consultas del registro de lotes. Los lotes solo se crean al aprobar una entrada
// (createLot dentro de esa transacción); no hay actualización ni borrado.
type LotRegistry struct {
	lots repository.LotRepository
}

// NewLotRegistry construye el registro sobre el repositorio de lectura (fuera de tx).
func NewLotRegistry(lots repository.LotRepository) *LotRegistry {
	return &LotRegistry{lots: lots}
}

// GetLot obtiene un lote por número dentro de (producto, bodega).
func (r *LotRegistry) GetLot(ctx context.Context, productUnitID, warehouseID, lotNumber string) (*entity.Lot, error) {
	if productUnitID == "" || warehouseID == "" || lotNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	lot, err := r.lots.Get(ctx, productUnitID, warehouseID, lotNumber)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return lot, nil
}

// ListLots lista los lotes de un producto en una bodega, el próximo a vencer primero.
func (r *LotRegistry) ListLots(ctx context.Context, productUnitID, warehouseID string) ([]*entity.Lot, error) {
	if productUnitID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return r.lots.List(ctx, productUnitID, warehouseID)
}

// validateLotInput campos obligatorios y reglas de fechas.
func validateLotInput(in LotInput, today time.Time) error {
	var missing []string
	if in.LotNumber == "" {
		missing = append(missing, "lot_number")
	}
	if in.ManufacturingDate.IsZero() {
		missing = append(missing, "manufacturing_date")
	}
	if in.ExpiryDate.IsZero() {
		missing = append(missing, "expiry_date")
	}
	if len(missing) > 0 {
		return &domain.MissingLotMetadataError{Fields: missing}
	}
	if in.ProductUnitID == "" || in.WarehouseID == "" {
		return domain.ErrInvalidInput
	}
	return domaininv.ValidateLotDates(in.LotNumber, in.ManufacturingDate, in.ExpiryDate, today)
}

// createLot registra el lote dentro de la transacción del caller.
func createLot(ctx context.Context, lots repository.LotRepository, in LotInput, now time.Time) (*entity.Lot, error) {
	if err := validateLotInput(in, now); err != nil {
		return nil, err
	}
	dup := &domain.DuplicateLotError{LotNumber: in.LotNumber, ProductUnitID: in.ProductUnitID, WarehouseID: in.WarehouseID}
	existing, err := lots.Get(ctx, in.ProductUnitID, in.WarehouseID, in.LotNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, dup
	}
	lot := &entity.Lot{
		ID:                  uuid.New().String(),
		LotNumber:           in.LotNumber,
		ProductUnitID:       in.ProductUnitID,
		WarehouseID:         in.WarehouseID,
		StockLocationID:     in.StockLocationID,
		ExpiryDate:          domaininv.DateOnly(in.ExpiryDate),
		ManufacturingDate:   domaininv.DateOnly(in.ManufacturingDate),
		SupplierName:        in.SupplierName,
		SupplierBatchNumber: in.SupplierBatchNumber,
		InitialQuantity:     in.InitialQuantity,
		DocumentID:          in.DocumentID,
		CreatedAt:           now,
	}
	if err := lots.Create(ctx, lot); err != nil {
		// carrera con otra entrada que registró el mismo lote
		if errors.Is(err, domain.ErrDuplicateLot) {
			return nil, dup
		}
		return nil, err
	}
	return lot, nil
}
