package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StocktakingStatus estado de una toma física.
type StocktakingStatus string

const (
	StocktakingStatusPending    StocktakingStatus = "PENDING"
	StocktakingStatusInProgress StocktakingStatus = "IN_PROGRESS"
	StocktakingStatusConfirmed  StocktakingStatus = "CONFIRMED"
	StocktakingStatusCancelled  StocktakingStatus = "CANCELLED"
)

// IsValid verifica que el estado sea conocido.
func (s StocktakingStatus) IsValid() bool {
	switch s {
	case StocktakingStatusPending, StocktakingStatusInProgress, StocktakingStatusConfirmed, StocktakingStatusCancelled:
		return true
	}
	return false
}

// IsTerminal CONFIRMED y CANCELLED son finales.
func (s StocktakingStatus) IsTerminal() bool {
	return s == StocktakingStatusConfirmed || s == StocktakingStatusCancelled
}

// CanTransitionTo PENDING → IN_PROGRESS → CONFIRMED; PENDING|IN_PROGRESS → CANCELLED.
func (s StocktakingStatus) CanTransitionTo(target StocktakingStatus) bool {
	switch s {
	case StocktakingStatusPending:
		return target == StocktakingStatusInProgress || target == StocktakingStatusCancelled
	case StocktakingStatusInProgress:
		return target == StocktakingStatusConfirmed || target == StocktakingStatusCancelled
	}
	return false
}

// CheckItemStatus resultado del conteo de un ítem.
type CheckItemStatus string

const (
	CheckItemStatusPending     CheckItemStatus = "PENDING"
	CheckItemStatusChecked     CheckItemStatus = "CHECKED"
	CheckItemStatusDiscrepancy CheckItemStatus = "DISCREPANCY"
)

// StocktakingSession sesión de conteo físico sobre una bodega/ubicación.
type StocktakingSession struct {
	ID              string
	Status          StocktakingStatus
	WarehouseID     string
	StockLocationID string
	Note            string
	CreatedBy       string
	ConfirmedBy     string
	CancelReason    string // solo cuando CANCELLED
	CreatedAt       time.Time
	UpdatedAt       time.Time
	StartedAt       *time.Time
	ConfirmedAt     *time.Time
	CancelledAt     *time.Time
	Items           []CheckItem
}

// CheckItem conteo de un producto. SystemQuantity es la foto del ledger al registrar el ítem.
type CheckItem struct {
	ID             string
	CheckID        string
	Position       int
	ProductUnitID  string
	SystemQuantity decimal.Decimal
	ActualQuantity decimal.Decimal
	Difference     decimal.Decimal // Actual - System
	Status         CheckItemStatus
	Note           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RecordCount fija el conteo y recalcula diferencia y estado (CHECKED ⇔ diferencia cero).
func (i *CheckItem) RecordCount(systemQty, actualQty decimal.Decimal) {
	i.SystemQuantity = systemQty
	i.ActualQuantity = actualQty
	i.Difference = actualQty.Sub(systemQty)
	if i.Difference.IsZero() {
		i.Status = CheckItemStatusChecked
	} else {
		i.Status = CheckItemStatusDiscrepancy
	}
}

// BalanceKey fila del ledger del producto en la bodega/ubicación de la sesión.
func (s *StocktakingSession) BalanceKey(productUnitID string) BalanceKey {
	return BalanceKey{ProductUnitID: productUnitID, WarehouseID: s.WarehouseID, StockLocationID: s.StockLocationID}
}

// FindItemByProduct busca el ítem ya registrado para un producto.
func (s *StocktakingSession) FindItemByProduct(productUnitID string) (*CheckItem, bool) {
	for i := range s.Items {
		if s.Items[i].ProductUnitID == productUnitID {
			return &s.Items[i], true
		}
	}
	return nil, false
}

// DiscrepancyCount número de ítems con diferencia.
func (s *StocktakingSession) DiscrepancyCount() int {
	n := 0
	for _, it := range s.Items {
		if it.Status == CheckItemStatusDiscrepancy {
			n++
		}
	}
	return n
}
