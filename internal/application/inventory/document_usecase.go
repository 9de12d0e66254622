package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/pkg/logger"
	"github.com/shopspring/decimal"
)

const entityStockDocument = "stock_document"

// DocumentUseCase flujo de documentos de entrada/salida:
// PENDING (líneas editables) → APPROVED (muta ledger y lotes) | REJECTED (sin mutación).
type DocumentUseCase struct {
	txRunner  TxRunner
	documents repository.StockDocumentRepository
	log       *logger.Logger
	metrics   Metrics
	now       func() time.Time
}

// NewDocumentUseCase construye el caso de uso. documents es el repositorio de lectura (fuera de tx).
func NewDocumentUseCase(txRunner TxRunner, documents repository.StockDocumentRepository, log *logger.Logger, metrics Metrics) *DocumentUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &DocumentUseCase{
		txRunner:  txRunner,
		documents: documents,
		log:       log.Named("stock_documents"),
		metrics:   metrics,
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *DocumentUseCase) WithClock(now func() time.Time) *DocumentUseCase {
	uc.now = now
	return uc
}

// CreateDocumentInput entrada para crear un documento.
type CreateDocumentInput struct {
	Type            entity.DocumentType
	WarehouseID     string
	StockLocationID string
	ReferenceNumber string
	Note            string
	CreatedBy       string
}

// LineInput entrada para agregar una línea. Los datos de lote solo aplican a INBOUND.
type LineInput struct {
	ProductUnitID       string
	Quantity            decimal.Decimal
	LotNumber           string
	ExpiryDate          *time.Time
	ManufacturingDate   *time.Time
	SupplierName        string
	SupplierBatchNumber string
}

// CreateDocument crea el documento en PENDING y sin líneas. La ubicación es obligatoria.
func (uc *DocumentUseCase) CreateDocument(ctx context.Context, in CreateDocumentInput) (*entity.StockDocument, error) {
	if !in.Type.IsValid() || in.WarehouseID == "" || in.StockLocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	doc := &entity.StockDocument{
		ID:              uuid.New().String(),
		Type:            in.Type,
		Status:          entity.DocumentStatusPending,
		WarehouseID:     in.WarehouseID,
		StockLocationID: in.StockLocationID,
		ReferenceNumber: in.ReferenceNumber,
		Note:            in.Note,
		CreatedBy:       in.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
		Lines:           []entity.DocumentLine{},
	}
	if err := uc.documents.Create(ctx, doc); err != nil {
		return nil, err
	}
	uc.log.Info().Str("document_id", doc.ID).Str("type", string(doc.Type)).Msg("documento creado")
	return doc, nil
}

// AddLine agrega una línea al documento abierto. En entradas valida el lote antes de aceptar
// la línea (metadatos, fechas y duplicados), así un error afecta solo a esa línea.
func (uc *DocumentUseCase) AddLine(ctx context.Context, documentID string, in LineInput) (*entity.StockDocument, error) {
	if in.ProductUnitID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if err := checkQuantity(in.Quantity); err != nil {
		return nil, err
	}
	var out *entity.StockDocument
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		doc, err := loadDocumentForUpdate(ctx, r.Documents, documentID)
		if err != nil {
			return err
		}
		if !doc.Status.IsOpen() {
			return documentStateError(doc, "add_line")
		}
		now := uc.now()
		line := &entity.DocumentLine{
			ID:                  uuid.New().String(),
			DocumentID:          doc.ID,
			Position:            doc.NextPosition(),
			ProductUnitID:       in.ProductUnitID,
			Quantity:            in.Quantity,
			LotNumber:           in.LotNumber,
			ExpiryDate:          dateOrNil(in.ExpiryDate),
			ManufacturingDate:   dateOrNil(in.ManufacturingDate),
			SupplierName:        in.SupplierName,
			SupplierBatchNumber: in.SupplierBatchNumber,
			CreatedAt:           now,
		}
		switch doc.Type {
		case entity.DocumentTypeInbound:
			if err := checkInboundLine(ctx, r.Lots, doc, line, now); err != nil {
				return err
			}
		case entity.DocumentTypeOutbound:
			if line.HasLotMetadata() {
				return fmt.Errorf("%w: las líneas de salida no llevan datos de lote", domain.ErrInvalidInput)
			}
		}
		if err := r.Documents.AddLine(ctx, line); err != nil {
			return err
		}
		doc.Lines = append(doc.Lines, *line)
		doc.UpdatedAt = now
		if err := r.Documents.Update(ctx, doc); err != nil {
			return err
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveLine quita una línea de un documento abierto (p. ej. tras un faltante de stock).
func (uc *DocumentUseCase) RemoveLine(ctx context.Context, documentID, lineID string) (*entity.StockDocument, error) {
	var out *entity.StockDocument
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		doc, err := loadDocumentForUpdate(ctx, r.Documents, documentID)
		if err != nil {
			return err
		}
		if !doc.Status.IsOpen() {
			return documentStateError(doc, "remove_line")
		}
		if _, ok := doc.FindLine(lineID); !ok {
			return domain.ErrNotFound
		}
		if err := r.Documents.DeleteLine(ctx, doc.ID, lineID); err != nil {
			return err
		}
		lines := make([]entity.DocumentLine, 0, len(doc.Lines)-1)
		for _, l := range doc.Lines {
			if l.ID != lineID {
				lines = append(lines, l)
			}
		}
		doc.Lines = lines
		doc.UpdatedAt = uc.now()
		if err := r.Documents.Update(ctx, doc); err != nil {
			return err
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Approve aplica el documento al ledger de forma atómica. Salidas: verificación autoritativa
// con las filas bloqueadas y InsufficientStockError con el faltante por producto. Entradas:
// registra cada lote y suma las cantidades. Si algo falla no se aplica ningún delta y el
// documento sigue en PENDING.
func (uc *DocumentUseCase) Approve(ctx context.Context, documentID, actor string) (*entity.StockDocument, error) {
	start := time.Now()
	var (
		out     *entity.StockDocument
		docType string
	)
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		doc, err := loadDocumentForUpdate(ctx, r.Documents, documentID)
		if err != nil {
			return err
		}
		docType = string(doc.Type)
		if doc.Status != entity.DocumentStatusPending || !doc.Status.CanTransitionTo(entity.DocumentStatusApproved) {
			return documentStateError(doc, "approve")
		}
		if len(doc.Lines) == 0 {
			return documentStateError(doc, "approve sin líneas")
		}

		now := uc.now()
		deltas := domaininv.AggregateDocumentDeltas(doc)
		keys := make([]entity.BalanceKey, 0, len(deltas))
		for _, d := range deltas {
			keys = append(keys, d.Key)
		}
		locked, err := lockRows(ctx, r.Balances, keys)
		if err != nil {
			return err
		}

		switch doc.Type {
		case entity.DocumentTypeOutbound:
			reqs := make([]domaininv.Requirement, 0, len(deltas))
			for _, d := range deltas {
				reqs = append(reqs, domaininv.Requirement{ProductUnitID: d.Key.ProductUnitID, Quantity: d.Delta.Neg()})
			}
			shortages := domaininv.ComputeShortages(reqs, func(id string) decimal.Decimal {
				return locked[doc.BalanceKey(id)].AvailableQuantity()
			})
			if len(shortages) > 0 {
				return &domain.InsufficientStockError{Shortages: shortages}
			}
		case entity.DocumentTypeInbound:
			for _, line := range linesInOrder(doc) {
				if _, err := createLot(ctx, r.Lots, lotInputFromLine(doc, line), now); err != nil {
					return err
				}
			}
		}

		src := movementSource{Type: entity.MovementSourceDocument, ID: doc.ID, Actor: actor}
		for _, d := range deltas {
			if _, err := applyDelta(ctx, r, d.Key, d.Delta, src, now); err != nil {
				return err
			}
		}

		doc.Status = entity.DocumentStatusApproved
		doc.DecidedAt = &now
		doc.DecidedBy = actor
		doc.UpdatedAt = now
		if err := r.Documents.Update(ctx, doc); err != nil {
			return err
		}
		out = doc
		return nil
	})
	uc.metrics.ObserveCommit("document_approve", time.Since(start))
	uc.metrics.DocumentDecided(docType, approvalOutcome(err, "approved"))
	if err != nil {
		uc.logFailure(documentID, "aprobación rechazada", err)
		return nil, err
	}
	uc.log.WithActor(actor).Info().Str("document_id", out.ID).Str("type", docType).Int("lines", len(out.Lines)).
		Msg("documento aprobado")
	return out, nil
}

// Reject rechaza un documento PENDING sin tocar el ledger. Estado terminal.
func (uc *DocumentUseCase) Reject(ctx context.Context, documentID, reason, actor string) (*entity.StockDocument, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: el motivo de rechazo es obligatorio", domain.ErrInvalidInput)
	}
	var out *entity.StockDocument
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		doc, err := loadDocumentForUpdate(ctx, r.Documents, documentID)
		if err != nil {
			return err
		}
		if doc.Status != entity.DocumentStatusPending || !doc.Status.CanTransitionTo(entity.DocumentStatusRejected) {
			return documentStateError(doc, "reject")
		}
		now := uc.now()
		doc.Status = entity.DocumentStatusRejected
		doc.RejectionReason = reason
		doc.DecidedAt = &now
		doc.DecidedBy = actor
		doc.UpdatedAt = now
		if err := r.Documents.Update(ctx, doc); err != nil {
			return err
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.DocumentDecided(string(out.Type), "rejected")
	uc.log.WithActor(actor).Info().Str("document_id", out.ID).Str("reason", reason).Msg("documento rechazado")
	return out, nil
}

// GetDocument obtiene el documento con sus líneas.
func (uc *DocumentUseCase) GetDocument(ctx context.Context, documentID string) (*entity.StockDocument, error) {
	doc, err := uc.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// ListDocuments lista cabeceras con filtros opcionales por bodega, estado y tipo.
func (uc *DocumentUseCase) ListDocuments(ctx context.Context, filter repository.DocumentFilter) ([]*entity.StockDocument, int, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, domain.ErrInvalidInput
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, 0, domain.ErrInvalidInput
	}
	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset)
	return uc.documents.List(ctx, filter)
}

func (uc *DocumentUseCase) logFailure(documentID, msg string, err error) {
	ev := uc.log.Warn()
	var ise *domain.InsufficientStockError
	if errors.As(err, &ise) {
		ev = ev.Int("shortages", len(ise.Shortages))
	}
	ev.Str("document_id", documentID).Err(err).Msg(msg)
}

// checkInboundLine validación anticipada de una línea de entrada: metadatos, fechas y
// unicidad del lote frente al registro y frente a las demás líneas del documento.
func checkInboundLine(ctx context.Context, lots repository.LotRepository, doc *entity.StockDocument, line *entity.DocumentLine, now time.Time) error {
	if err := validateLotInput(lotInputFromLine(doc, *line), now); err != nil {
		return err
	}
	dup := &domain.DuplicateLotError{LotNumber: line.LotNumber, ProductUnitID: line.ProductUnitID, WarehouseID: doc.WarehouseID}
	if doc.HasLot(line.ProductUnitID, line.LotNumber) {
		return dup
	}
	existing, err := lots.Get(ctx, line.ProductUnitID, doc.WarehouseID, line.LotNumber)
	if err != nil {
		return err
	}
	if existing != nil {
		return dup
	}
	return nil
}

func lotInputFromLine(doc *entity.StockDocument, line entity.DocumentLine) LotInput {
	in := LotInput{
		LotNumber:           line.LotNumber,
		ProductUnitID:       line.ProductUnitID,
		WarehouseID:         doc.WarehouseID,
		StockLocationID:     doc.StockLocationID,
		SupplierName:        line.SupplierName,
		SupplierBatchNumber: line.SupplierBatchNumber,
		InitialQuantity:     line.Quantity,
		DocumentID:          doc.ID,
	}
	if line.ExpiryDate != nil {
		in.ExpiryDate = *line.ExpiryDate
	}
	if line.ManufacturingDate != nil {
		in.ManufacturingDate = *line.ManufacturingDate
	}
	return in
}

func linesInOrder(doc *entity.StockDocument) []entity.DocumentLine {
	lines := make([]entity.DocumentLine, len(doc.Lines))
	copy(lines, doc.Lines)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Position < lines[j].Position })
	return lines
}

func loadDocumentForUpdate(ctx context.Context, documents repository.StockDocumentRepository, id string) (*entity.StockDocument, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	doc, err := documents.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func documentStateError(doc *entity.StockDocument, op string) error {
	return &domain.InvalidStateError{Entity: entityStockDocument, ID: doc.ID, Status: string(doc.Status), Operation: op}
}

func dateOrNil(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	d := domaininv.DateOnly(*t)
	return &d
}

// approvalOutcome etiqueta de métricas para el resultado de approve/confirm.
func approvalOutcome(err error, success string) string {
	switch {
	case err == nil:
		return success
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrNegativeStock):
		return "negative_stock"
	case errors.Is(err, domain.ErrDuplicateLot), errors.Is(err, domain.ErrInvalidLotDates):
		return "lot_rejected"
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrEmptySession):
		return "invalid_state"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
