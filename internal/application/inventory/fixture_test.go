package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

var today = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return today }

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func rowKey(product string) entity.BalanceKey {
	return entity.BalanceKey{ProductUnitID: product, WarehouseID: "1", StockLocationID: "1"}
}

type fixture struct {
	store       *memory.Store
	ledger      *inventory.Ledger
	lots        *inventory.LotRegistry
	checker     *inventory.AvailabilityChecker
	documents   *inventory.DocumentUseCase
	stocktaking *inventory.StocktakingUseCase
	metrics     *recordingMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore(2 * time.Second)
	repos := store.Repos()
	log := logger.Nop()
	m := &recordingMetrics{}
	return &fixture{
		store:       store,
		ledger:      inventory.NewLedger(repos.Balances),
		lots:        inventory.NewLotRegistry(repos.Lots),
		checker:     inventory.NewAvailabilityChecker(repos.Balances),
		documents:   inventory.NewDocumentUseCase(store, repos.Documents, log, m).WithClock(clock),
		stocktaking: inventory.NewStocktakingUseCase(store, repos.Sessions, log, m).WithClock(clock),
		metrics:     m,
	}
}

// seed deja la fila con la existencia indicada, directo en el almacenamiento.
func (f *fixture) seed(t *testing.T, product string, qty int64) {
	t.Helper()
	b := entity.NewZeroBalance(rowKey(product))
	b.Quantity = dec(qty)
	b.UpdatedAt = today
	require.NoError(t, f.store.Repos().Balances.Upsert(context.Background(), b))
}

func (f *fixture) quantity(t *testing.T, product string) decimal.Decimal {
	t.Helper()
	b, err := f.ledger.GetBalance(context.Background(), product, "1", "1")
	require.NoError(t, err)
	return b.Quantity
}

// assertLedgerInvariants existencia ≥ 0 y reservado ≤ existencia en todas las filas.
func (f *fixture) assertLedgerInvariants(t *testing.T) {
	t.Helper()
	for _, b := range f.store.Balances() {
		require.False(t, b.Quantity.IsNegative(), "existencia negativa en %+v", b.Key())
		require.False(t, b.ReservedQuantity.GreaterThan(b.Quantity), "reservado mayor que existencia en %+v", b.Key())
	}
}

func (f *fixture) newDocument(t *testing.T, typ entity.DocumentType) *entity.StockDocument {
	t.Helper()
	doc, err := f.documents.CreateDocument(context.Background(), inventory.CreateDocumentInput{
		Type: typ, WarehouseID: "1", StockLocationID: "1", CreatedBy: "u-1",
	})
	require.NoError(t, err)
	return doc
}

func (f *fixture) addOutbound(t *testing.T, docID, product string, qty int64) {
	t.Helper()
	_, err := f.documents.AddLine(context.Background(), docID, inventory.LineInput{ProductUnitID: product, Quantity: dec(qty)})
	require.NoError(t, err)
}

func lotLine(product string, qty int64, lot string) inventory.LineInput {
	return inventory.LineInput{
		ProductUnitID:     product,
		Quantity:          dec(qty),
		LotNumber:         lot,
		ManufacturingDate: day("2024-01-01"),
		ExpiryDate:        day("2025-01-01"),
		SupplierName:      "Proveedor S.A.S.",
	}
}

type decision struct{ kind, outcome string }

type recordingMetrics struct {
	mu        sync.Mutex
	decisions []decision
	finished  []string
}

func (m *recordingMetrics) DocumentDecided(docType, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, decision{docType, outcome})
}

func (m *recordingMetrics) StocktakingFinished(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = append(m.finished, outcome)
}

func (m *recordingMetrics) ObserveCommit(string, time.Duration) {}
