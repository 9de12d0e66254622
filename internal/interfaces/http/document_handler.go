package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// DocumentHandler documentos de entrada y salida.
type DocumentHandler struct {
	uc *inventory.DocumentUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *inventory.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear documento de inventario
// @Tags         stock-documents
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header  string  false  "usuario que crea"
// @Param        body  body  dto.CreateDocumentRequest  true  "type, warehouse_id, stock_location_id"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock-documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	doc, err := h.uc.CreateDocument(c.UserContext(), inventory.CreateDocumentInput{
		Type:            entity.DocumentType(in.Type),
		WarehouseID:     in.WarehouseID,
		StockLocationID: in.StockLocationID,
		ReferenceNumber: in.ReferenceNumber,
		Note:            in.Note,
		CreatedBy:       GetActor(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(documentToDTO(doc))
}

// List godoc
// @Summary      Listar documentos
// @Tags         stock-documents
// @Produce      json
// @Param        warehouse_id  query  string  false  "bodega"
// @Param        status        query  string  false  "DRAFT|PENDING|APPROVED|REJECTED"
// @Param        type          query  string  false  "INBOUND|OUTBOUND"
// @Param        limit         query  int     false  "máximo 100"
// @Param        offset        query  int     false  "desplazamiento"
// @Success      200  {object}  dto.DocumentListResponse
// @Router       /api/stock-documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	var q dto.ListDocumentsQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	q.DefaultPage()
	docs, total, err := h.uc.ListDocuments(c.UserContext(), repository.DocumentFilter{
		WarehouseID: q.WarehouseID,
		Status:      entity.DocumentStatus(q.Status),
		Type:        entity.DocumentType(q.Type),
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, documentToDTO(d))
	}
	return c.JSON(dto.DocumentListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total}})
}

// GetByID godoc
// @Summary      Obtener documento con sus líneas
// @Tags         stock-documents
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetDocument(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(documentToDTO(doc))
}

// AddLine godoc
// @Summary      Agregar línea
// @Description  En entradas exige lote, fabricación y vencimiento; valida fechas y duplicados antes de aceptar la línea.
// @Tags         stock-documents
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del documento"
// @Param        body  body  dto.AddLineRequest  true  "línea"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock-documents/{id}/lines [post]
func (h *DocumentHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddLineRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	doc, err := h.uc.AddLine(c.UserContext(), c.Params("id"), inventory.LineInput{
		ProductUnitID:       in.ProductUnitID,
		Quantity:            in.Quantity,
		LotNumber:           in.LotNumber,
		ManufacturingDate:   parseDate(in.ManufacturingDate),
		ExpiryDate:          parseDate(in.ExpiryDate),
		SupplierName:        in.SupplierName,
		SupplierBatchNumber: in.SupplierBatchNumber,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(documentToDTO(doc))
}

// RemoveLine godoc
// @Summary      Quitar línea de un documento pendiente
// @Tags         stock-documents
// @Produce      json
// @Param        id      path  string  true  "ID del documento"
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-documents/{id}/lines/{lineId} [delete]
func (h *DocumentHandler) RemoveLine(c *fiber.Ctx) error {
	doc, err := h.uc.RemoveLine(c.UserContext(), c.Params("id"), c.Params("lineId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(documentToDTO(doc))
}

// Approve godoc
// @Summary      Aprobar documento
// @Description  Aplica todas las líneas al ledger o ninguna. Salidas sin stock responden 409 con los faltantes.
// @Tags         stock-documents
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock-documents/{id}/approve [post]
func (h *DocumentHandler) Approve(c *fiber.Ctx) error {
	doc, err := h.uc.Approve(c.UserContext(), c.Params("id"), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(documentToDTO(doc))
}

// Reject godoc
// @Summary      Rechazar documento
// @Tags         stock-documents
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del documento"
// @Param        body  body  dto.RejectDocumentRequest  true  "motivo"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-documents/{id}/reject [post]
func (h *DocumentHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectDocumentRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	doc, err := h.uc.Reject(c.UserContext(), c.Params("id"), in.Reason, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(documentToDTO(doc))
}
