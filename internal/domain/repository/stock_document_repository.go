package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// DocumentFilter filtros opcionales del listado de documentos.
type DocumentFilter struct {
	WarehouseID string
	Status      entity.DocumentStatus
	Type        entity.DocumentType
	Limit       int
	Offset      int
}

// StockDocumentRepository persistencia del agregado documento + líneas.
type StockDocumentRepository interface {
	Create(ctx context.Context, doc *entity.StockDocument) error
	// GetByID devuelve nil, nil si no existe. Incluye líneas ordenadas por posición.
	GetByID(ctx context.Context, id string) (*entity.StockDocument, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera del documento.
	GetForUpdate(ctx context.Context, id string) (*entity.StockDocument, error)
	// Update persiste la cabecera (estado, decisión, motivo).
	Update(ctx context.Context, doc *entity.StockDocument) error
	AddLine(ctx context.Context, line *entity.DocumentLine) error
	DeleteLine(ctx context.Context, documentID, lineID string) error
	// List devuelve cabeceras sin líneas y el total para paginación.
	List(ctx context.Context, filter DocumentFilter) ([]*entity.StockDocument, int, error)
}
