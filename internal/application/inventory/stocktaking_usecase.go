package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/pkg/logger"
	"github.com/shopspring/decimal"
)

const entityStocktakingSession = "stocktaking_session"

// StocktakingUseCase toma física: PENDING → IN_PROGRESS → CONFIRMED, con cancelación
// posible antes de confirmar. Al confirmar, el conteo reemplaza la existencia del ledger.
type StocktakingUseCase struct {
	txRunner TxRunner
	sessions repository.StocktakingRepository
	log      *logger.Logger
	metrics  Metrics
	now      func() time.Time
}

func NewStocktakingUseCase(txRunner TxRunner, sessions repository.StocktakingRepository, log *logger.Logger, metrics Metrics) *StocktakingUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &StocktakingUseCase{
		txRunner: txRunner,
		sessions: sessions,
		log:      log.Named("stocktaking"),
		metrics:  metrics,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *StocktakingUseCase) WithClock(now func() time.Time) *StocktakingUseCase {
	uc.now = now
	return uc
}

// CreateSessionInput entrada para abrir una toma física.
type CreateSessionInput struct {
	WarehouseID     string
	StockLocationID string
	Note            string
	CreatedBy       string
}

// AddItemInput conteo de un producto.
type AddItemInput struct {
	ProductUnitID  string
	ActualQuantity decimal.Decimal
	Note           string
}

// CreateSession crea la sesión en PENDING.
func (uc *StocktakingUseCase) CreateSession(ctx context.Context, in CreateSessionInput) (*entity.StocktakingSession, error) {
	if in.WarehouseID == "" || in.StockLocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	s := &entity.StocktakingSession{
		ID:              uuid.New().String(),
		Status:          entity.StocktakingStatusPending,
		WarehouseID:     in.WarehouseID,
		StockLocationID: in.StockLocationID,
		Note:            in.Note,
		CreatedBy:       in.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
		Items:           []entity.CheckItem{},
	}
	if err := uc.sessions.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.log.Info().Str("check_id", s.ID).Str("warehouse_id", s.WarehouseID).Msg("toma física creada")
	return s, nil
}

// Start PENDING → IN_PROGRESS.
func (uc *StocktakingUseCase) Start(ctx context.Context, checkID string) (*entity.StocktakingSession, error) {
	return uc.transition(ctx, checkID, "start", func(s *entity.StocktakingSession, _ Repos, now time.Time) error {
		if !s.Status.CanTransitionTo(entity.StocktakingStatusInProgress) {
			return sessionStateError(s, "start")
		}
		s.Status = entity.StocktakingStatusInProgress
		s.StartedAt = &now
		return nil
	})
}

// AddItem registra el conteo de un producto. La existencia del sistema se toma del ledger
// en este momento, no al iniciar la sesión. Un producto ya contado se recuenta sobre el mismo ítem.
func (uc *StocktakingUseCase) AddItem(ctx context.Context, checkID string, in AddItemInput) (*entity.StocktakingSession, error) {
	if in.ProductUnitID == "" || in.ActualQuantity.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if err := checkQuantity(in.ActualQuantity); err != nil {
		return nil, err
	}
	return uc.transition(ctx, checkID, "add_item", func(s *entity.StocktakingSession, r Repos, now time.Time) error {
		if s.Status != entity.StocktakingStatusInProgress {
			return sessionStateError(s, "add_item")
		}
		system, err := r.Balances.Get(ctx, s.BalanceKey(in.ProductUnitID))
		if err != nil {
			return err
		}
		item, ok := s.FindItemByProduct(in.ProductUnitID)
		if !ok {
			s.Items = append(s.Items, entity.CheckItem{
				ID:            uuid.New().String(),
				CheckID:       s.ID,
				Position:      len(s.Items) + 1,
				ProductUnitID: in.ProductUnitID,
				CreatedAt:     now,
			})
			item = &s.Items[len(s.Items)-1]
		}
		item.RecordCount(system.Quantity, in.ActualQuantity)
		item.Note = in.Note
		item.UpdatedAt = now
		return r.Sessions.SaveItem(ctx, item)
	})
}

// Confirm aplica cada conteo como existencia absoluta en un único lote atómico.
// Si cualquier fila falla, la sesión sigue IN_PROGRESS y nada se aplica.
func (uc *StocktakingUseCase) Confirm(ctx context.Context, checkID, actor string) (*entity.StocktakingSession, error) {
	start := time.Now()
	out, err := uc.transition(ctx, checkID, "confirm", func(s *entity.StocktakingSession, r Repos, now time.Time) error {
		if s.Status != entity.StocktakingStatusInProgress {
			return sessionStateError(s, "confirm")
		}
		if len(s.Items) == 0 {
			return fmt.Errorf("toma física %s: %w", s.ID, domain.ErrEmptySession)
		}
		keys := make([]entity.BalanceKey, 0, len(s.Items))
		for _, it := range s.Items {
			keys = append(keys, s.BalanceKey(it.ProductUnitID))
		}
		if _, err := lockRows(ctx, r.Balances, keys); err != nil {
			return err
		}
		src := movementSource{Type: entity.MovementSourceStocktaking, ID: s.ID, Actor: actor}
		for _, it := range s.Items {
			if _, _, err := setAbsolute(ctx, r, s.BalanceKey(it.ProductUnitID), it.ActualQuantity, src, now); err != nil {
				return err
			}
		}
		s.Status = entity.StocktakingStatusConfirmed
		s.ConfirmedAt = &now
		s.ConfirmedBy = actor
		return nil
	})
	uc.metrics.ObserveCommit("stocktaking_confirm", time.Since(start))
	uc.metrics.StocktakingFinished(approvalOutcome(err, "confirmed"))
	if err != nil {
		uc.log.Warn().Str("check_id", checkID).Err(err).Msg("confirmación de toma física rechazada")
		return nil, err
	}
	uc.log.WithActor(actor).Info().Str("check_id", out.ID).Int("items", len(out.Items)).
		Int("discrepancies", out.DiscrepancyCount()).Msg("toma física confirmada")
	return out, nil
}

// Cancel PENDING|IN_PROGRESS → CANCELLED sin tocar el ledger.
func (uc *StocktakingUseCase) Cancel(ctx context.Context, checkID, reason, actor string) (*entity.StocktakingSession, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: el motivo de cancelación es obligatorio", domain.ErrInvalidInput)
	}
	out, err := uc.transition(ctx, checkID, "cancel", func(s *entity.StocktakingSession, _ Repos, now time.Time) error {
		if !s.Status.CanTransitionTo(entity.StocktakingStatusCancelled) {
			return sessionStateError(s, "cancel")
		}
		s.Status = entity.StocktakingStatusCancelled
		s.CancelReason = reason
		s.CancelledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.StocktakingFinished("cancelled")
	uc.log.WithActor(actor).Info().Str("check_id", out.ID).Str("reason", reason).Msg("toma física cancelada")
	return out, nil
}

// GetSession obtiene la sesión con sus ítems.
func (uc *StocktakingUseCase) GetSession(ctx context.Context, checkID string) (*entity.StocktakingSession, error) {
	s, err := uc.sessions.GetByID(ctx, checkID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// ListSessions lista sesiones sin ítems.
func (uc *StocktakingUseCase) ListSessions(ctx context.Context, filter repository.SessionFilter) ([]*entity.StocktakingSession, int, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, domain.ErrInvalidInput
	}
	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset)
	return uc.sessions.List(ctx, filter)
}

// transition bloquea la sesión, aplica fn y persiste la cabecera en la misma transacción.
func (uc *StocktakingUseCase) transition(ctx context.Context, checkID, op string, fn func(s *entity.StocktakingSession, r Repos, now time.Time) error) (*entity.StocktakingSession, error) {
	if checkID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.StocktakingSession
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		s, err := r.Sessions.GetForUpdate(ctx, checkID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		now := uc.now()
		if err := fn(s, r, now); err != nil {
			return err
		}
		s.UpdatedAt = now
		if err := r.Sessions.Update(ctx, s); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func sessionStateError(s *entity.StocktakingSession, op string) error {
	return &domain.InvalidStateError{Entity: entityStocktakingSession, ID: s.ID, Status: string(s.Status), Operation: op}
}
