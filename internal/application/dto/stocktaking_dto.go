package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSessionRequest body para POST /api/stocktaking.
type CreateSessionRequest struct {
	WarehouseID     string `json:"warehouse_id" validate:"required"`
	StockLocationID string `json:"stock_location_id" validate:"required"`
	Note            string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// AddItemRequest body para POST /api/stocktaking/:id/items.
type AddItemRequest struct {
	ProductUnitID  string          `json:"product_unit_id" validate:"required"`
	ActualQuantity decimal.Decimal `json:"actual_quantity"`
	Note           string          `json:"note,omitempty" validate:"omitempty,max=500"`
}

// CancelSessionRequest body para POST /api/stocktaking/:id/cancel.
type CancelSessionRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ListSessionsQuery filtros de GET /api/stocktaking.
type ListSessionsQuery struct {
	PageRequest
	WarehouseID string `query:"warehouse_id"`
	Status      string `query:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS CONFIRMED CANCELLED"`
}

type CheckItemResponse struct {
	ID             string          `json:"id"`
	Position       int             `json:"position"`
	ProductUnitID  string          `json:"product_unit_id"`
	SystemQuantity decimal.Decimal `json:"system_quantity"`
	ActualQuantity decimal.Decimal `json:"actual_quantity"`
	Difference     decimal.Decimal `json:"difference"`
	Status         string          `json:"status"`
	Note           string          `json:"note,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type SessionResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	WarehouseID     string              `json:"warehouse_id"`
	StockLocationID string              `json:"stock_location_id"`
	Note            string              `json:"note,omitempty"`
	CreatedBy       string              `json:"created_by,omitempty"`
	ConfirmedBy     string              `json:"confirmed_by,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	StartedAt       *time.Time          `json:"started_at,omitempty"`
	ConfirmedAt     *time.Time          `json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	Discrepancies   int                 `json:"discrepancies"`
	Items           []CheckItemResponse `json:"items,omitempty"`
}

type SessionListResponse struct {
	Items []SessionResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
