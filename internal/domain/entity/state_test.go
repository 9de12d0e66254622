package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

func TestDocumentStatus_Transiciones(t *testing.T) {
	cases := []struct {
		from, to entity.DocumentStatus
		ok       bool
	}{
		{entity.DocumentStatusDraft, entity.DocumentStatusPending, true},
		{entity.DocumentStatusPending, entity.DocumentStatusApproved, true},
		{entity.DocumentStatusPending, entity.DocumentStatusRejected, true},
		{entity.DocumentStatusDraft, entity.DocumentStatusApproved, false},
		{entity.DocumentStatusApproved, entity.DocumentStatusRejected, false},
		{entity.DocumentStatusRejected, entity.DocumentStatusApproved, false},
		{entity.DocumentStatusApproved, entity.DocumentStatusApproved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
	assert.True(t, entity.DocumentStatusDraft.IsOpen())
	assert.True(t, entity.DocumentStatusPending.IsOpen())
	assert.True(t, entity.DocumentStatusApproved.IsTerminal())
}

func TestStocktakingStatus_Transiciones(t *testing.T) {
	cases := []struct {
		from, to entity.StocktakingStatus
		ok       bool
	}{
		{entity.StocktakingStatusPending, entity.StocktakingStatusInProgress, true},
		{entity.StocktakingStatusPending, entity.StocktakingStatusCancelled, true},
		{entity.StocktakingStatusInProgress, entity.StocktakingStatusConfirmed, true},
		{entity.StocktakingStatusInProgress, entity.StocktakingStatusCancelled, true},
		{entity.StocktakingStatusPending, entity.StocktakingStatusConfirmed, false},
		{entity.StocktakingStatusConfirmed, entity.StocktakingStatusCancelled, false},
		{entity.StocktakingStatusCancelled, entity.StocktakingStatusInProgress, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCheckItem_RecordCount(t *testing.T) {
	var it entity.CheckItem

	it.RecordCount(decimal.NewFromInt(20), decimal.NewFromInt(15))
	assert.True(t, it.Difference.Equal(decimal.NewFromInt(-5)))
	assert.Equal(t, entity.CheckItemStatusDiscrepancy, it.Status)

	it.RecordCount(decimal.NewFromInt(20), decimal.NewFromInt(20))
	assert.True(t, it.Difference.IsZero())
	assert.Equal(t, entity.CheckItemStatusChecked, it.Status)
}

func TestStockBalance_Disponible(t *testing.T) {
	b := entity.NewZeroBalance(entity.BalanceKey{ProductUnitID: "7", WarehouseID: "1", StockLocationID: "1"})
	assert.True(t, b.AvailableQuantity().IsZero())

	b.Quantity = decimal.NewFromInt(10)
	b.ReservedQuantity = decimal.NewFromInt(3)
	assert.True(t, b.AvailableQuantity().Equal(decimal.NewFromInt(7)))
}

func TestBalanceKey_Orden(t *testing.T) {
	a := entity.BalanceKey{ProductUnitID: "9", WarehouseID: "1", StockLocationID: "1"}
	b := entity.BalanceKey{ProductUnitID: "1", WarehouseID: "1", StockLocationID: "2"}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

func TestStockDocument_HasLotYPosiciones(t *testing.T) {
	d := &entity.StockDocument{Lines: []entity.DocumentLine{
		{ID: "l1", Position: 1, ProductUnitID: "7", LotNumber: "LOT-001"},
		{ID: "l2", Position: 3, ProductUnitID: "8", LotNumber: "LOT-002"},
	}}
	assert.True(t, d.HasLot("7", "LOT-001"))
	assert.False(t, d.HasLot("8", "LOT-001"))
	assert.Equal(t, 4, d.NextPosition())

	l, ok := d.FindLine("l2")
	assert.True(t, ok)
	assert.Equal(t, "8", l.ProductUnitID)
}
