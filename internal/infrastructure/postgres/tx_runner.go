package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner. lockTimeout acota la espera por bloqueos de fila.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, fija lock_timeout local, ejecuta fn con repos atados a la tx
// y hace Commit o Rollback. Los errores de contención salen como domain.ErrConcurrencyConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return classifyError(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := setLockTimeout(ctx, tx, r.lockTimeout); err != nil {
		return err
	}

	if err := fn(NewRepos(tx)); err != nil {
		return classifyError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classifyError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// NewRepos arma los repositorios sobre pool o tx.
func NewRepos(q Querier) inventory.Repos {
	return inventory.Repos{
		Balances:  NewStockBalanceRepository(q),
		Lots:      NewLotRepository(q),
		Documents: NewStockDocumentRepository(q),
		Sessions:  NewStocktakingRepository(q),
		Movements: NewStockMovementRepository(q),
	}
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// setLockTimeout fija lock_timeout local a la tx; d <= 0 deja el valor del servidor.
func setLockTimeout(ctx context.Context, tx execer, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, lockTimeoutSetting(d)); err != nil {
		return classifyError(fmt.Errorf("set lock_timeout: %w", err))
	}
	return nil
}

func lockTimeoutSetting(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}
