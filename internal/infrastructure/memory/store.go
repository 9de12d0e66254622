// Package memory implementa los puertos del núcleo de inventario en memoria.
// Se usa con STORAGE_DRIVER=memory y en los tests de casos de uso.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

type lotKey struct {
	productUnitID string
	warehouseID   string
	lotNumber     string
}

// state copia completa de los datos; una transacción trabaja sobre su propia copia.
type state struct {
	balances  map[entity.BalanceKey]entity.StockBalance
	lots      map[lotKey]entity.Lot
	documents map[string]entity.StockDocument
	sessions  map[string]entity.StocktakingSession
	movements []entity.StockMovement
}

func newState() *state {
	return &state{
		balances:  map[entity.BalanceKey]entity.StockBalance{},
		lots:      map[lotKey]entity.Lot{},
		documents: map[string]entity.StockDocument{},
		sessions:  map[string]entity.StocktakingSession{},
	}
}

func (s *state) clone() *state {
	c := &state{
		balances:  make(map[entity.BalanceKey]entity.StockBalance, len(s.balances)),
		lots:      make(map[lotKey]entity.Lot, len(s.lots)),
		documents: make(map[string]entity.StockDocument, len(s.documents)),
		sessions:  make(map[string]entity.StocktakingSession, len(s.sessions)),
		movements: append([]entity.StockMovement(nil), s.movements...),
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.lots {
		c.lots[k] = v
	}
	for k, v := range s.documents {
		c.documents[k] = copyDocument(v)
	}
	for k, v := range s.sessions {
		c.sessions[k] = copySession(v)
	}
	return c
}

// Store serializa las transacciones: una sola a la vez trabaja sobre una copia del estado
// confirmado y la publica al terminar sin error. La espera por el turno está acotada por
// lockTimeout y se reporta como domain.ErrConcurrencyConflict.
type Store struct {
	mu          sync.RWMutex
	committed   *state
	txSem       chan struct{}
	lockTimeout time.Duration
}

// NewStore crea un store vacío.
func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = 5 * time.Second
	}
	return &Store{
		committed:   newState(),
		txSem:       make(chan struct{}, 1),
		lockTimeout: lockTimeout,
	}
}

// Run ejecuta fn con repositorios atados a una copia privada del estado.
// Si fn devuelve error la copia se descarta y nada de lo hecho es visible.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	return s.runState(ctx, func(st *state) error {
		return fn(reposFor(txAccess{st: st}))
	})
}

// Repos devuelve repositorios sobre el estado confirmado, para lecturas fuera de transacción.
// Las escrituras hechas por ellos se ejecutan cada una como una transacción corta.
func (s *Store) Repos() inventory.Repos {
	return reposFor(storeAccess{s: s})
}

func (s *Store) runState(ctx context.Context, fn func(st *state) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer func() { <-s.txSem }()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(work); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

func (s *Store) acquire(ctx context.Context) error {
	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()
	select {
	case s.txSem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("esperando transacción: %w: %v", domain.ErrConcurrencyConflict, ctx.Err())
	case <-timer.C:
		return fmt.Errorf("esperando transacción más de %s: %w", s.lockTimeout, domain.ErrConcurrencyConflict)
	}
}

// access abstrae si un repositorio trabaja sobre la copia de una tx o sobre el estado confirmado.
type access interface {
	read(fn func(st *state) error) error
	write(ctx context.Context, fn func(st *state) error) error
}

type txAccess struct{ st *state }

func (a txAccess) read(fn func(st *state) error) error { return fn(a.st) }

func (a txAccess) write(_ context.Context, fn func(st *state) error) error { return fn(a.st) }

type storeAccess struct{ s *Store }

func (a storeAccess) read(fn func(st *state) error) error {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return fn(a.s.committed)
}

func (a storeAccess) write(ctx context.Context, fn func(st *state) error) error {
	return a.s.runState(ctx, fn)
}

func reposFor(a access) inventory.Repos {
	return inventory.Repos{
		Balances:  &stockBalanceRepo{a: a},
		Lots:      &lotRepo{a: a},
		Documents: &stockDocumentRepo{a: a},
		Sessions:  &stocktakingRepo{a: a},
		Movements: &stockMovementRepo{a: a},
	}
}

func copyDocument(d entity.StockDocument) entity.StockDocument {
	d.Lines = append([]entity.DocumentLine{}, d.Lines...)
	if d.DecidedAt != nil {
		t := *d.DecidedAt
		d.DecidedAt = &t
	}
	return d
}

func copySession(s entity.StocktakingSession) entity.StocktakingSession {
	s.Items = append([]entity.CheckItem{}, s.Items...)
	return s
}
