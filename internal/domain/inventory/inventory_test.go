package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSumRequirements_AgrupaConservandoOrden(t *testing.T) {
	out := inventory.SumRequirements([]inventory.Requirement{
		{ProductUnitID: "b", Quantity: d(1)},
		{ProductUnitID: "a", Quantity: d(2)},
		{ProductUnitID: "b", Quantity: d(3)},
	})
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].ProductUnitID)
	assert.True(t, out[0].Quantity.Equal(d(4)))
	assert.Equal(t, "a", out[1].ProductUnitID)
}

func TestComputeShortages(t *testing.T) {
	avail := map[string]decimal.Decimal{"42": d(5), "7": d(20)}
	shortages := inventory.ComputeShortages([]inventory.Requirement{
		{ProductUnitID: "42", Quantity: d(10)},
		{ProductUnitID: "7", Quantity: d(20)},
		{ProductUnitID: "99", Quantity: d(1)},
	}, func(id string) decimal.Decimal {
		if v, ok := avail[id]; ok {
			return v
		}
		return decimal.Zero
	})

	require.Len(t, shortages, 2)
	assert.Equal(t, "42", shortages[0].ProductUnitID)
	assert.True(t, shortages[0].Required.Equal(d(10)))
	assert.True(t, shortages[0].Available.Equal(d(5)))
	assert.Equal(t, "99", shortages[1].ProductUnitID)
	assert.True(t, shortages[1].Available.IsZero())
}

func TestValidateLotDates(t *testing.T) {
	today := date("2024-06-01")
	cases := []struct {
		name    string
		mfg     string
		exp     string
		wantErr bool
	}{
		{"válido", "2024-01-01", "2025-01-01", false},
		{"fabricado hoy", "2024-06-01", "2024-06-02", false},
		{"vence hoy", "2024-01-01", "2024-06-01", true},
		{"vencido", "2023-01-01", "2024-01-01", true},
		{"fabricación futura", "2024-07-01", "2025-01-01", true},
		{"fabricación después del vencimiento", "2024-05-01", "2024-04-01", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := inventory.ValidateLotDates("LOT-001", date(tc.mfg), date(tc.exp), today)
			if tc.wantErr {
				assert.True(t, errors.Is(err, domain.ErrInvalidLotDates))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAggregateDocumentDeltas_SumaPorFilaEnOrden(t *testing.T) {
	doc := &entity.StockDocument{
		Type: entity.DocumentTypeOutbound, WarehouseID: "1", StockLocationID: "1",
		Lines: []entity.DocumentLine{
			{Position: 2, ProductUnitID: "8", Quantity: d(1)},
			{Position: 1, ProductUnitID: "7", Quantity: d(2)},
			{Position: 3, ProductUnitID: "7", Quantity: d(3)},
		},
	}
	deltas := inventory.AggregateDocumentDeltas(doc)
	require.Len(t, deltas, 2)
	assert.Equal(t, "7", deltas[0].Key.ProductUnitID)
	assert.True(t, deltas[0].Delta.Equal(d(-5)))
	assert.Equal(t, "8", deltas[1].Key.ProductUnitID)
	assert.True(t, deltas[1].Delta.Equal(d(-1)))
}

func TestSortedKeys_SinDuplicados(t *testing.T) {
	k1 := entity.BalanceKey{ProductUnitID: "2", WarehouseID: "1", StockLocationID: "1"}
	k2 := entity.BalanceKey{ProductUnitID: "1", WarehouseID: "1", StockLocationID: "1"}
	out := inventory.SortedKeys([]entity.BalanceKey{k1, k2, k1})
	assert.Equal(t, []entity.BalanceKey{k2, k1}, out)
}

func TestValidQuantity_EscalaDeLaColumna(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"10", true},
		{"0.0001", true},
		{"1.50000", true},
		{"-3.2500", true},
		{"0.00005", false},
		{"0.00004", false},
		{"-1.00001", false},
		{"99999999999999.9999", true},
		{"100000000000000", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.ValidQuantity(decimal.RequireFromString(tc.in)))
		})
	}
}
