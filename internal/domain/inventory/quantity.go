package inventory

import "github.com/shopspring/decimal"

// QuantityScale decimales que guardan las columnas de cantidad (NUMERIC(18,4)).
const QuantityScale = 4

// maxQuantity 10^14: 18 dígitos de precisión menos 4 de escala.
var maxQuantity = decimal.New(1, 18-QuantityScale)

// ValidQuantity indica si q se guarda sin redondeo. Los ceros finales no cuentan como
// decimales: 1.50000 es válido.
func ValidQuantity(q decimal.Decimal) bool {
	return q.Equal(q.Truncate(QuantityScale)) && q.Abs().LessThan(maxQuantity)
}
