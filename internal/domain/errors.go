package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidState        = errors.New("operación no permitida en el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrNegativeStock       = errors.New("el movimiento dejaría el stock en negativo")
	ErrDuplicateLot        = errors.New("el lote ya existe para el producto y la bodega")
	ErrInvalidLotDates     = errors.New("fechas de lote inválidas")
	ErrMissingLotMetadata  = errors.New("faltan datos de lote en la línea de entrada")
	ErrEmptySession        = errors.New("la toma física no tiene ítems contados")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintente la operación")
)

// Shortage describe el faltante de un producto frente a lo requerido.
type Shortage struct {
	ProductUnitID string
	Required      decimal.Decimal
	Available     decimal.Decimal
}

// Missing devuelve la cantidad que falta para cubrir lo requerido.
func (s Shortage) Missing() decimal.Decimal {
	return s.Required.Sub(s.Available)
}

// InvalidStateError guarda de la máquina de estados que rechazó la operación.
type InvalidStateError struct {
	Entity    string // stock_document | stocktaking_session
	ID        string
	Status    string
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s en estado %s no admite %s", e.Entity, e.ID, e.Status, e.Operation)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// InsufficientStockError lista los faltantes por producto de una salida.
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s (requerido %s, disponible %s)", s.ProductUnitID, s.Required, s.Available))
	}
	return "stock insuficiente: " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// NegativeStockError se produce cuando un delta dejaría la fila por debajo de cero
// (o por debajo de lo reservado).
type NegativeStockError struct {
	ProductUnitID   string
	WarehouseID     string
	StockLocationID string
	Current         decimal.Decimal
	Delta           decimal.Decimal
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("stock negativo en %s/%s/%s: actual %s, delta %s",
		e.ProductUnitID, e.WarehouseID, e.StockLocationID, e.Current, e.Delta)
}

func (e *NegativeStockError) Unwrap() error { return ErrNegativeStock }

// DuplicateLotError el número de lote ya está registrado para (producto, bodega).
type DuplicateLotError struct {
	LotNumber     string
	ProductUnitID string
	WarehouseID   string
}

func (e *DuplicateLotError) Error() string {
	return fmt.Sprintf("lote %q duplicado para producto %s en bodega %s", e.LotNumber, e.ProductUnitID, e.WarehouseID)
}

func (e *DuplicateLotError) Unwrap() error { return ErrDuplicateLot }

// InvalidLotDatesError explica qué regla de fechas se incumplió.
type InvalidLotDatesError struct {
	LotNumber string
	Reason    string
}

func (e *InvalidLotDatesError) Error() string {
	return fmt.Sprintf("fechas inválidas en lote %q: %s", e.LotNumber, e.Reason)
}

func (e *InvalidLotDatesError) Unwrap() error { return ErrInvalidLotDates }

// MissingLotMetadataError lista los campos de lote ausentes.
type MissingLotMetadataError struct {
	Fields []string
}

func (e *MissingLotMetadataError) Error() string {
	return "faltan datos de lote: " + strings.Join(e.Fields, ", ")
}

func (e *MissingLotMetadataError) Unwrap() error { return ErrMissingLotMetadata }

// IsRetryable indica si el caller puede reintentar la operación completa sin cambios.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}
