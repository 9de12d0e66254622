package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// HeaderUserID identifica al usuario que ejecuta la operación. La autenticación la resuelve
// el gateway; este servicio solo propaga la identidad.
const HeaderUserID = "X-User-ID"

// LocalActor key en c.Locals.
const LocalActor = "actor"

// ActorMiddleware copia la identidad del usuario a c.Locals.
func ActorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalActor, c.Get(HeaderUserID))
		return c.Next()
	}
}

// GetActor devuelve el usuario del contexto (después de ActorMiddleware).
func GetActor(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalActor).(string)
	return s
}

// RequestLogger registra método, ruta, estado y latencia de cada petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		reqLog := log.WithActor(GetActor(c))
		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = reqLog.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
