package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// Repos agrupa los repositorios del núcleo de inventario. Atados a una transacción
// cuando los entrega TxRunner.Run; atados al pool para lecturas fuera de transacción.
type Repos struct {
	Balances  repository.StockBalanceRepository
	Lots      repository.LotRepository
	Documents repository.StockDocumentRepository
	Sessions  repository.StocktakingRepository
	Movements repository.StockMovementRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso. Las esperas por bloqueo que
// excedan el límite configurado se devuelven como domain.ErrConcurrencyConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// Metrics observa los resultados de aprobaciones y confirmaciones.
type Metrics interface {
	DocumentDecided(docType, outcome string)
	StocktakingFinished(outcome string)
	ObserveCommit(operation string, d time.Duration)
}

// NopMetrics implementación vacía de Metrics.
type NopMetrics struct{}

func (NopMetrics) DocumentDecided(string, string)      {}
func (NopMetrics) StocktakingFinished(string)          {}
func (NopMetrics) ObserveCommit(string, time.Duration) {}
