package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// StocktakingHandler tomas físicas.
type StocktakingHandler struct {
	uc *inventory.StocktakingUseCase
}

func NewStocktakingHandler(uc *inventory.StocktakingUseCase) *StocktakingHandler {
	return &StocktakingHandler{uc: uc}
}

// Create godoc
// @Summary      Crear toma física
// @Tags         stocktaking
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSessionRequest  true  "warehouse_id, stock_location_id"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stocktaking [post]
func (h *StocktakingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSessionRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	s, err := h.uc.CreateSession(c.UserContext(), inventory.CreateSessionInput{
		WarehouseID:     in.WarehouseID,
		StockLocationID: in.StockLocationID,
		Note:            in.Note,
		CreatedBy:       GetActor(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sessionToDTO(s))
}

// List godoc
// @Summary      Listar tomas físicas
// @Tags         stocktaking
// @Produce      json
// @Param        warehouse_id  query  string  false  "bodega"
// @Param        status        query  string  false  "PENDING|IN_PROGRESS|CONFIRMED|CANCELLED"
// @Success      200  {object}  dto.SessionListResponse
// @Router       /api/stocktaking [get]
func (h *StocktakingHandler) List(c *fiber.Ctx) error {
	var q dto.ListSessionsQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	q.DefaultPage()
	sessions, total, err := h.uc.ListSessions(c.UserContext(), repository.SessionFilter{
		WarehouseID: q.WarehouseID,
		Status:      entity.StocktakingStatus(q.Status),
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, sessionToDTO(s))
	}
	return c.JSON(dto.SessionListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total}})
}

// GetByID godoc
// @Summary      Obtener toma física con sus ítems
// @Tags         stocktaking
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocktaking/{id} [get]
func (h *StocktakingHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.uc.GetSession(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sessionToDTO(s))
}

// Start godoc
// @Summary      Iniciar conteo
// @Tags         stocktaking
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stocktaking/{id}/start [post]
func (h *StocktakingHandler) Start(c *fiber.Ctx) error {
	s, err := h.uc.Start(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sessionToDTO(s))
}

// AddItem godoc
// @Summary      Registrar conteo de un producto
// @Description  Toma la existencia del sistema en este momento; volver a contar un producto reemplaza su conteo.
// @Tags         stocktaking
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la sesión"
// @Param        body  body  dto.AddItemRequest  true  "producto y cantidad contada"
// @Success      201   {object}  dto.SessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stocktaking/{id}/items [post]
func (h *StocktakingHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	s, err := h.uc.AddItem(c.UserContext(), c.Params("id"), inventory.AddItemInput{
		ProductUnitID:  in.ProductUnitID,
		ActualQuantity: in.ActualQuantity,
		Note:           in.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sessionToDTO(s))
}

// Confirm godoc
// @Summary      Confirmar toma física
// @Description  Fija la existencia contada de cada ítem en una sola transacción.
// @Tags         stocktaking
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stocktaking/{id}/confirm [post]
func (h *StocktakingHandler) Confirm(c *fiber.Ctx) error {
	s, err := h.uc.Confirm(c.UserContext(), c.Params("id"), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sessionToDTO(s))
}

// Cancel godoc
// @Summary      Cancelar toma física
// @Tags         stocktaking
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la sesión"
// @Param        body  body  dto.CancelSessionRequest  true  "motivo"
// @Success      200   {object}  dto.SessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stocktaking/{id}/cancel [post]
func (h *StocktakingHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelSessionRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	s, err := h.uc.Cancel(c.UserContext(), c.Params("id"), in.Reason, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sessionToDTO(s))
}
