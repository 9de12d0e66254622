package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType tipo de documento de inventario.
type DocumentType string

const (
	DocumentTypeInbound  DocumentType = "INBOUND"
	DocumentTypeOutbound DocumentType = "OUTBOUND"
)

// IsValid verifica que el tipo sea conocido.
func (t DocumentType) IsValid() bool {
	return t == DocumentTypeInbound || t == DocumentTypeOutbound
}

// DocumentStatus estado de un documento de inventario.
type DocumentStatus string

const (
	DocumentStatusDraft    DocumentStatus = "DRAFT"
	DocumentStatusPending  DocumentStatus = "PENDING"
	DocumentStatusApproved DocumentStatus = "APPROVED"
	DocumentStatusRejected DocumentStatus = "REJECTED"
)

// IsValid verifica que el estado sea conocido.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusPending, DocumentStatusApproved, DocumentStatusRejected:
		return true
	}
	return false
}

// IsOpen DRAFT y PENDING admiten edición de líneas.
func (s DocumentStatus) IsOpen() bool {
	return s == DocumentStatusDraft || s == DocumentStatusPending
}

// IsTerminal APPROVED y REJECTED no admiten más transiciones.
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusApproved || s == DocumentStatusRejected
}

// CanTransitionTo transiciones monótonas: DRAFT → PENDING → {APPROVED, REJECTED}.
func (s DocumentStatus) CanTransitionTo(target DocumentStatus) bool {
	switch s {
	case DocumentStatusDraft:
		return target == DocumentStatusPending
	case DocumentStatusPending:
		return target == DocumentStatusApproved || target == DocumentStatusRejected
	}
	return false
}

// StockDocument documento de entrada o salida con sus líneas en orden de captura.
type StockDocument struct {
	ID              string
	Type            DocumentType
	Status          DocumentStatus
	WarehouseID     string
	StockLocationID string
	ReferenceNumber string
	Note            string
	CreatedBy       string
	DecidedBy       string
	RejectionReason string // solo cuando REJECTED
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DecidedAt       *time.Time
	Lines           []DocumentLine
}

// DocumentLine línea de un documento. Los datos de lote solo aplican a INBOUND.
type DocumentLine struct {
	ID                  string
	DocumentID          string
	Position            int
	ProductUnitID       string
	Quantity            decimal.Decimal
	LotNumber           string
	ExpiryDate          *time.Time
	ManufacturingDate   *time.Time
	SupplierName        string
	SupplierBatchNumber string
	CreatedAt           time.Time
}

// HasLotMetadata indica si la línea trae algún dato de lote.
func (l *DocumentLine) HasLotMetadata() bool {
	return l.LotNumber != "" || l.ExpiryDate != nil || l.ManufacturingDate != nil ||
		l.SupplierName != "" || l.SupplierBatchNumber != ""
}

// BalanceKey fila del ledger que afecta la línea dentro del documento.
func (d *StockDocument) BalanceKey(productUnitID string) BalanceKey {
	return BalanceKey{ProductUnitID: productUnitID, WarehouseID: d.WarehouseID, StockLocationID: d.StockLocationID}
}

// NextPosition posición para una línea nueva (las líneas se aplican en orden de captura).
func (d *StockDocument) NextPosition() int {
	max := 0
	for _, l := range d.Lines {
		if l.Position > max {
			max = l.Position
		}
	}
	return max + 1
}

// FindLine busca una línea por ID.
func (d *StockDocument) FindLine(lineID string) (*DocumentLine, bool) {
	for i := range d.Lines {
		if d.Lines[i].ID == lineID {
			return &d.Lines[i], true
		}
	}
	return nil, false
}

// HasLot indica si otra línea del documento ya usa el lote para el mismo producto.
func (d *StockDocument) HasLot(productUnitID, lotNumber string) bool {
	for _, l := range d.Lines {
		if l.ProductUnitID == productUnitID && l.LotNumber == lotNumber {
			return true
		}
	}
	return false
}
