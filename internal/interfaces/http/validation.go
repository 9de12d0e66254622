package http

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-stock/internal/application/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// reporta el nombre del campo tal como llega en el JSON o en la query
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "query"} {
			if tag := strings.SplitN(f.Tag.Get(key), ",", 2)[0]; tag != "" && tag != "-" {
				return tag
			}
		}
		return f.Name
	})
	return v
}

// bindBody parsea el cuerpo JSON y valida las etiquetas validate.
// Si falla ya escribió la respuesta 400 y devuelve ok=false.
func bindBody(c *fiber.Ctx, dest any) (bool, error) {
	if err := c.BodyParser(dest); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return checkStruct(c, dest)
}

// bindQuery igual que bindBody para parámetros de query.
func bindQuery(c *fiber.Ctx, dest any) (bool, error) {
	if err := c.QueryParser(dest); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	return checkStruct(c, dest)
}

func checkStruct(c *fiber.Ctx, dest any) (bool, error) {
	err := validate.Struct(dest)
	if err == nil {
		return true, nil
	}
	resp := dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]dto.FieldError, 0, len(errs))
		for _, fe := range errs {
			fields = append(fields, dto.FieldError{Field: fieldPath(fe), Rule: fe.Tag()})
		}
		resp.Details = fields
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(resp)
}

// fieldPath quita el nombre del struct raíz: "AvailabilityRequest.items[0].product_unit_id" → "items[0].product_unit_id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
