package inventory

import (
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain"
)

// DateOnly trunca a fecha calendario UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateLotDates aplica fabricación ≤ hoy < vencimiento y fabricación ≤ vencimiento.
// Las comparaciones son por fecha calendario.
func ValidateLotDates(lotNumber string, manufacturing, expiry, today time.Time) error {
	mfg, exp, now := DateOnly(manufacturing), DateOnly(expiry), DateOnly(today)
	switch {
	case mfg.After(exp):
		return &domain.InvalidLotDatesError{LotNumber: lotNumber, Reason: "la fecha de fabricación es posterior al vencimiento"}
	case mfg.After(now):
		return &domain.InvalidLotDatesError{LotNumber: lotNumber, Reason: "la fecha de fabricación es futura"}
	case !now.Before(exp):
		return &domain.InvalidLotDatesError{LotNumber: lotNumber, Reason: "el lote ya está vencido"}
	}
	return nil
}
