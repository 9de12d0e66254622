package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// fakeBalances filas en un mapa; GetForUpdate no bloquea (un solo goroutine por test).
type fakeBalances struct {
	rows map[entity.BalanceKey]entity.StockBalance
}

func (f *fakeBalances) Get(_ context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	if b, ok := f.rows[key]; ok {
		return &b, nil
	}
	return entity.NewZeroBalance(key), nil
}

func (f *fakeBalances) GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	return f.Get(ctx, key)
}

func (f *fakeBalances) Upsert(_ context.Context, b *entity.StockBalance) error {
	f.rows[b.Key()] = *b
	return nil
}

func (f *fakeBalances) SumByWarehouse(context.Context, string, string) (*entity.StockBalance, error) {
	return nil, errors.New("no usado")
}

type fakeMovements struct {
	created []*entity.StockMovement
}

func (f *fakeMovements) Create(_ context.Context, m *entity.StockMovement) error {
	f.created = append(f.created, m)
	return nil
}

func (f *fakeMovements) ListBySource(context.Context, string, string) ([]*entity.StockMovement, error) {
	return f.created, nil
}

var (
	ledgerNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ledgerKey = entity.BalanceKey{ProductUnitID: "7", WarehouseID: "1", StockLocationID: "1"}
	ledgerSrc = movementSource{Type: entity.MovementSourceDocument, ID: "doc-1", Actor: "u-1"}
)

func newLedgerRepos(qty, reserved int64) (Repos, *fakeBalances, *fakeMovements) {
	b := &fakeBalances{rows: map[entity.BalanceKey]entity.StockBalance{}}
	if qty > 0 {
		row := entity.NewZeroBalance(ledgerKey)
		row.Quantity = decimal.NewFromInt(qty)
		row.ReservedQuantity = decimal.NewFromInt(reserved)
		b.rows[ledgerKey] = *row
	}
	m := &fakeMovements{}
	return Repos{Balances: b, Movements: m}, b, m
}

func TestApplyDelta_NoPermiteNegativos(t *testing.T) {
	ctx := context.Background()
	r, rows, movs := newLedgerRepos(5, 0)

	_, err := applyDelta(ctx, r, ledgerKey, decimal.NewFromInt(-6), ledgerSrc, ledgerNow)
	var neg *domain.NegativeStockError
	require.True(t, errors.As(err, &neg))
	assert.True(t, neg.Current.Equal(decimal.NewFromInt(5)))
	assert.True(t, neg.Delta.Equal(decimal.NewFromInt(-6)))
	assert.True(t, rows.rows[ledgerKey].Quantity.Equal(decimal.NewFromInt(5)))
	assert.Empty(t, movs.created)

	b, err := applyDelta(ctx, r, ledgerKey, decimal.NewFromInt(-5), ledgerSrc, ledgerNow)
	require.NoError(t, err)
	assert.True(t, b.Quantity.IsZero())
	// la fila en cero se conserva
	assert.Contains(t, rows.rows, ledgerKey)
	require.Len(t, movs.created, 1)
	assert.True(t, movs.created[0].Delta.Equal(decimal.NewFromInt(-5)))
	assert.Equal(t, "doc-1", movs.created[0].SourceID)
}

func TestApplyDelta_NoBajaDeLoReservado(t *testing.T) {
	r, rows, _ := newLedgerRepos(10, 8)
	_, err := applyDelta(context.Background(), r, ledgerKey, decimal.NewFromInt(-3), ledgerSrc, ledgerNow)
	assert.ErrorIs(t, err, domain.ErrNegativeStock)
	assert.True(t, rows.rows[ledgerKey].Quantity.Equal(decimal.NewFromInt(10)))
}

func TestApplyDelta_EntradaInvalida(t *testing.T) {
	cases := []struct {
		name  string
		key   entity.BalanceKey
		delta decimal.Decimal
	}{
		{"delta cero", ledgerKey, decimal.Zero},
		{"sin ubicación", entity.BalanceKey{ProductUnitID: "7", WarehouseID: "1"}, decimal.NewFromInt(1)},
		{"más de cuatro decimales", ledgerKey, decimal.RequireFromString("0.00005")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _, movs := newLedgerRepos(5, 0)
			_, err := applyDelta(context.Background(), r, tc.key, tc.delta, ledgerSrc, ledgerNow)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, movs.created)
		})
	}
}

func TestSetAbsolute_GanaSobreElSaldoYRecortaReserva(t *testing.T) {
	ctx := context.Background()
	r, _, movs := newLedgerRepos(10, 8)

	b, delta, err := setAbsolute(ctx, r, ledgerKey, decimal.NewFromInt(3), ledgerSrc, ledgerNow)
	require.NoError(t, err)
	assert.True(t, b.Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, b.ReservedQuantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, delta.Equal(decimal.NewFromInt(-7)))
	require.Len(t, movs.created, 1)
	assert.True(t, movs.created[0].QuantityAfter.Equal(decimal.NewFromInt(3)))

	_, _, err = setAbsolute(ctx, r, ledgerKey, decimal.NewFromInt(-1), ledgerSrc, ledgerNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = setAbsolute(ctx, r, ledgerKey, decimal.RequireFromString("2.00001"), ledgerSrc, ledgerNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
