package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.StockDocumentRepository = (*StockDocumentRepo)(nil)

// StockDocumentRepo documentos de entrada/salida y sus líneas (usable con pool o tx).
type StockDocumentRepo struct {
	q Querier
}

// NewStockDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockDocumentRepository(q Querier) *StockDocumentRepo {
	return &StockDocumentRepo{q: q}
}

const documentColumns = `id, type, status, warehouse_id, stock_location_id, reference_number, note,
	created_by, decided_by, rejection_reason, created_at, updated_at, decided_at`

const lineColumns = `id, document_id, position, product_unit_id, quantity, lot_number, expiry_date, manufacturing_date,
	supplier_name, supplier_batch_number, created_at`

func (r *StockDocumentRepo) Create(ctx context.Context, doc *entity.StockDocument) error {
	query := `INSERT INTO stock_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.Type, doc.Status, doc.WarehouseID, doc.StockLocationID, nullIfEmpty(doc.ReferenceNumber), nullIfEmpty(doc.Note),
		nullIfEmpty(doc.CreatedBy), nullIfEmpty(doc.DecidedBy), nullIfEmpty(doc.RejectionReason), doc.CreatedAt, doc.UpdatedAt, doc.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock document: %w", err)
	}
	return nil
}

func (r *StockDocumentRepo) GetByID(ctx context.Context, id string) (*entity.StockDocument, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate bloquea la cabecera; dos aprobaciones del mismo documento quedan en serie.
func (r *StockDocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockDocument, error) {
	return r.get(ctx, id, true)
}

func (r *StockDocumentRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.StockDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM stock_documents WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	doc, err := scanDocument(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock document: %w", err)
	}
	lines, err := r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Lines = lines
	return doc, nil
}

func (r *StockDocumentRepo) lines(ctx context.Context, documentID string) ([]entity.DocumentLine, error) {
	query := `SELECT ` + lineColumns + ` FROM stock_document_lines WHERE document_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()
	lines := []entity.DocumentLine{}
	for rows.Next() {
		var (
			l                            entity.DocumentLine
			lot, supplier, supplierBatch *string
		)
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.Position, &l.ProductUnitID, &l.Quantity, &lot, &l.ExpiryDate, &l.ManufacturingDate,
			&supplier, &supplierBatch, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		l.LotNumber = derefString(lot)
		l.SupplierName = derefString(supplier)
		l.SupplierBatchNumber = derefString(supplierBatch)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Update persiste la cabecera (estado, decisión, motivo).
func (r *StockDocumentRepo) Update(ctx context.Context, doc *entity.StockDocument) error {
	query := `
		UPDATE stock_documents
		SET status = $2, reference_number = $3, note = $4, decided_by = $5, rejection_reason = $6, updated_at = $7, decided_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, doc.ID, doc.Status, nullIfEmpty(doc.ReferenceNumber), nullIfEmpty(doc.Note),
		nullIfEmpty(doc.DecidedBy), nullIfEmpty(doc.RejectionReason), doc.UpdatedAt, doc.DecidedAt)
	if err != nil {
		return fmt.Errorf("update stock document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockDocumentRepo) AddLine(ctx context.Context, line *entity.DocumentLine) error {
	query := `INSERT INTO stock_document_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.DocumentID, line.Position, line.ProductUnitID, line.Quantity, nullIfEmpty(line.LotNumber),
		line.ExpiryDate, line.ManufacturingDate, nullIfEmpty(line.SupplierName), nullIfEmpty(line.SupplierBatchNumber), line.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("add document line: %w", err)
	}
	return nil
}

func (r *StockDocumentRepo) DeleteLine(ctx context.Context, documentID, lineID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_document_lines WHERE document_id = $1 AND id = $2`, documentID, lineID)
	if err != nil {
		return fmt.Errorf("delete document line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve cabeceras (sin líneas), más recientes primero, y el total del filtro.
func (r *StockDocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.StockDocument, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	pos := 1
	if f.WarehouseID != "" {
		where += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, f.WarehouseID)
		pos++
	}
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, f.Type)
		pos++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_documents`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock documents: %w", err)
	}

	query := `SELECT ` + documentColumns + ` FROM stock_documents` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock documents: %w", err)
	}
	defer rows.Close()
	list := []*entity.StockDocument{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock document: %w", err)
		}
		list = append(list, doc)
	}
	return list, total, rows.Err()
}

func scanDocument(row pgx.Row) (*entity.StockDocument, error) {
	var (
		d                                          entity.StockDocument
		ref, note, createdBy, decidedBy, rejection *string
	)
	if err := row.Scan(&d.ID, &d.Type, &d.Status, &d.WarehouseID, &d.StockLocationID, &ref, &note,
		&createdBy, &decidedBy, &rejection, &d.CreatedAt, &d.UpdatedAt, &d.DecidedAt); err != nil {
		return nil, err
	}
	d.ReferenceNumber = derefString(ref)
	d.Note = derefString(note)
	d.CreatedBy = derefString(createdBy)
	d.DecidedBy = derefString(decidedBy)
	d.RejectionReason = derefString(rejection)
	return &d, nil
}
