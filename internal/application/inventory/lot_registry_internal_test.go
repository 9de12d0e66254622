package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

type fakeLots struct {
	byNumber map[string]*entity.Lot
	// createErr simula otra transacción que registró el mismo lote entre Get y Create.
	createErr error
}

func (f *fakeLots) Create(_ context.Context, lot *entity.Lot) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byNumber[lot.LotNumber] = lot
	return nil
}

func (f *fakeLots) Get(_ context.Context, _, _, lotNumber string) (*entity.Lot, error) {
	return f.byNumber[lotNumber], nil
}

func (f *fakeLots) List(context.Context, string, string) ([]*entity.Lot, error) {
	return nil, nil
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testLotInput(lot, mfg, exp string) LotInput {
	return LotInput{
		LotNumber:         lot,
		ProductUnitID:     "7",
		WarehouseID:       "1",
		StockLocationID:   "1",
		ManufacturingDate: mustDate(mfg),
		ExpiryDate:        mustDate(exp),
		InitialQuantity:   decimal.NewFromInt(10),
	}
}

func TestCreateLot_ReglasDeFechas(t *testing.T) {
	cases := []struct {
		name, mfg, exp string
		wantErr        error
	}{
		{"vigente", "2024-01-01", "2025-01-01", nil},
		{"fabricación hoy", "2024-06-01", "2024-12-01", nil},
		{"vence hoy", "2024-01-01", "2024-06-01", domain.ErrInvalidLotDates},
		{"fabricación futura", "2024-06-02", "2025-01-01", domain.ErrInvalidLotDates},
		{"fabricación posterior al vencimiento", "2024-05-01", "2024-04-01", domain.ErrInvalidLotDates},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lots := &fakeLots{byNumber: map[string]*entity.Lot{}}
			lot, err := createLot(context.Background(), lots, testLotInput("LOT-001", tc.mfg, tc.exp), ledgerNow)
			if tc.wantErr == nil {
				require.NoError(t, err)
				assert.NotEmpty(t, lot.ID)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, lots.byNumber)
		})
	}
}

func TestCreateLot_Duplicado(t *testing.T) {
	ctx := context.Background()
	lots := &fakeLots{byNumber: map[string]*entity.Lot{}}
	_, err := createLot(ctx, lots, testLotInput("LOT-001", "2024-01-01", "2025-01-01"), ledgerNow)
	require.NoError(t, err)

	_, err = createLot(ctx, lots, testLotInput("LOT-001", "2024-02-01", "2025-02-01"), ledgerNow)
	var dup *domain.DuplicateLotError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "LOT-001", dup.LotNumber)

	// la restricción única del almacenamiento también sale como DuplicateLotError
	race := &fakeLots{byNumber: map[string]*entity.Lot{}, createErr: domain.ErrDuplicateLot}
	_, err = createLot(ctx, race, testLotInput("LOT-002", "2024-01-01", "2025-01-01"), ledgerNow)
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "LOT-002", dup.LotNumber)
}

func TestValidateLotInput_MetadatosFaltantes(t *testing.T) {
	in := testLotInput("", "2024-01-01", "2025-01-01")
	in.ExpiryDate = time.Time{}
	err := validateLotInput(in, ledgerNow)
	var missing *domain.MissingLotMetadataError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"lot_number", "expiry_date"}, missing.Fields)
}
