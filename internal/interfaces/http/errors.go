package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
)

// respondError traduce errores de dominio a la respuesta HTTP con su detalle estructurado.
func respondError(c *fiber.Ctx, err error) error {
	status, body := errorBody(err)
	if domain.IsRetryable(err) {
		c.Set(fiber.HeaderRetryAfter, "1")
	}
	return c.Status(status).JSON(body)
}

func errorBody(err error) (int, dto.ErrorResponse) {
	var (
		stateErr   *domain.InvalidStateError
		stockErr   *domain.InsufficientStockError
		negErr     *domain.NegativeStockError
		dupErr     *domain.DuplicateLotError
		datesErr   *domain.InvalidLotDatesError
		missingErr *domain.MissingLotMetadataError
	)
	switch {
	case errors.As(err, &stockErr):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error(), Details: shortagesToDTO(stockErr.Shortages)}
	case errors.As(err, &stateErr):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error(), Details: fiber.Map{
			"entity": stateErr.Entity, "id": stateErr.ID, "status": stateErr.Status, "operation": stateErr.Operation,
		}}
	case errors.As(err, &negErr):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "NEGATIVE_STOCK", Message: err.Error(), Details: fiber.Map{
			"product_unit_id": negErr.ProductUnitID, "warehouse_id": negErr.WarehouseID, "stock_location_id": negErr.StockLocationID,
			"current": negErr.Current, "delta": negErr.Delta,
		}}
	case errors.As(err, &dupErr):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE_LOT", Message: err.Error(), Details: fiber.Map{
			"lot_number": dupErr.LotNumber, "product_unit_id": dupErr.ProductUnitID, "warehouse_id": dupErr.WarehouseID,
		}}
	case errors.As(err, &datesErr):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "INVALID_LOT_DATES", Message: err.Error(), Details: fiber.Map{
			"lot_number": datesErr.LotNumber, "reason": datesErr.Reason,
		}}
	case errors.As(err, &missingErr):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "MISSING_LOT_METADATA", Message: err.Error(), Details: fiber.Map{
			"fields": missingErr.Fields,
		}}
	case errors.Is(err, domain.ErrDuplicateLot):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE_LOT", Message: err.Error()}
	case errors.Is(err, domain.ErrEmptySession):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMPTY_SESSION", Message: err.Error()}
	case domain.IsRetryable(err):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "CONCURRENCY_CONFLICT", Message: "conflicto de concurrencia, reintente la operación"}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}
