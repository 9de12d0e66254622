package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDocumentRequest body para POST /api/stock-documents.
type CreateDocumentRequest struct {
	Type            string `json:"type" validate:"required,oneof=INBOUND OUTBOUND"`
	WarehouseID     string `json:"warehouse_id" validate:"required"`
	StockLocationID string `json:"stock_location_id" validate:"required"`
	ReferenceNumber string `json:"reference_number,omitempty" validate:"omitempty,max=100"`
	Note            string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// AddLineRequest body para POST /api/stock-documents/:id/lines.
// Los datos de lote son obligatorios en entradas y prohibidos en salidas. Fechas en formato YYYY-MM-DD.
type AddLineRequest struct {
	ProductUnitID       string          `json:"product_unit_id" validate:"required"`
	Quantity            decimal.Decimal `json:"quantity"`
	LotNumber           string          `json:"lot_number,omitempty" validate:"omitempty,max=100"`
	ManufacturingDate   string          `json:"manufacturing_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate          string          `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SupplierName        string          `json:"supplier_name,omitempty" validate:"omitempty,max=200"`
	SupplierBatchNumber string          `json:"supplier_batch_number,omitempty" validate:"omitempty,max=100"`
}

// RejectDocumentRequest body para POST /api/stock-documents/:id/reject.
type RejectDocumentRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ListDocumentsQuery filtros de GET /api/stock-documents.
type ListDocumentsQuery struct {
	PageRequest
	WarehouseID string `query:"warehouse_id"`
	Status      string `query:"status" validate:"omitempty,oneof=DRAFT PENDING APPROVED REJECTED"`
	Type        string `query:"type" validate:"omitempty,oneof=INBOUND OUTBOUND"`
}

// DocumentLineResponse línea en respuestas.
type DocumentLineResponse struct {
	ID                  string          `json:"id"`
	Position            int             `json:"position"`
	ProductUnitID       string          `json:"product_unit_id"`
	Quantity            decimal.Decimal `json:"quantity"`
	LotNumber           string          `json:"lot_number,omitempty"`
	ManufacturingDate   string          `json:"manufacturing_date,omitempty"`
	ExpiryDate          string          `json:"expiry_date,omitempty"`
	SupplierName        string          `json:"supplier_name,omitempty"`
	SupplierBatchNumber string          `json:"supplier_batch_number,omitempty"`
}

// DocumentResponse documento con sus líneas; en listados Lines se omite.
type DocumentResponse struct {
	ID              string                 `json:"id"`
	Type            string                 `json:"type"`
	Status          string                 `json:"status"`
	WarehouseID     string                 `json:"warehouse_id"`
	StockLocationID string                 `json:"stock_location_id"`
	ReferenceNumber string                 `json:"reference_number,omitempty"`
	Note            string                 `json:"note,omitempty"`
	CreatedBy       string                 `json:"created_by,omitempty"`
	DecidedBy       string                 `json:"decided_by,omitempty"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	DecidedAt       *time.Time             `json:"decided_at,omitempty"`
	Lines           []DocumentLineResponse `json:"lines,omitempty"`
}

// DocumentListResponse página de documentos.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
