package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.StockBalanceRepository  = (*stockBalanceRepo)(nil)
	_ repository.LotRepository           = (*lotRepo)(nil)
	_ repository.StockDocumentRepository = (*stockDocumentRepo)(nil)
	_ repository.StocktakingRepository   = (*stocktakingRepo)(nil)
	_ repository.StockMovementRepository = (*stockMovementRepo)(nil)
)

type stockBalanceRepo struct{ a access }

func (r *stockBalanceRepo) Get(_ context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	var out *entity.StockBalance
	err := r.a.read(func(st *state) error {
		if b, ok := st.balances[key]; ok {
			out = &b
			return nil
		}
		out = entity.NewZeroBalance(key)
		return nil
	})
	return out, err
}

// GetForUpdate dentro de una tx la exclusión ya la da el turno de la transacción.
func (r *stockBalanceRepo) GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	return r.Get(ctx, key)
}

func (r *stockBalanceRepo) Upsert(ctx context.Context, b *entity.StockBalance) error {
	return r.a.write(ctx, func(st *state) error {
		st.balances[b.Key()] = *b
		return nil
	})
}

func (r *stockBalanceRepo) SumByWarehouse(_ context.Context, productUnitID, warehouseID string) (*entity.StockBalance, error) {
	out := entity.NewZeroBalance(entity.BalanceKey{ProductUnitID: productUnitID, WarehouseID: warehouseID})
	err := r.a.read(func(st *state) error {
		for k, b := range st.balances {
			if k.ProductUnitID != productUnitID || k.WarehouseID != warehouseID {
				continue
			}
			out.Quantity = out.Quantity.Add(b.Quantity)
			out.ReservedQuantity = out.ReservedQuantity.Add(b.ReservedQuantity)
			if b.UpdatedAt.After(out.UpdatedAt) {
				out.UpdatedAt = b.UpdatedAt
			}
		}
		return nil
	})
	return out, err
}

type lotRepo struct{ a access }

func (r *lotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	k := lotKey{productUnitID: lot.ProductUnitID, warehouseID: lot.WarehouseID, lotNumber: lot.LotNumber}
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.lots[k]; ok {
			return domain.ErrDuplicateLot
		}
		st.lots[k] = *lot
		return nil
	})
}

func (r *lotRepo) Get(_ context.Context, productUnitID, warehouseID, lotNumber string) (*entity.Lot, error) {
	var out *entity.Lot
	err := r.a.read(func(st *state) error {
		if l, ok := st.lots[lotKey{productUnitID: productUnitID, warehouseID: warehouseID, lotNumber: lotNumber}]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

// List ordena por vencimiento (FEFO) y luego por número de lote.
func (r *lotRepo) List(_ context.Context, productUnitID, warehouseID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	err := r.a.read(func(st *state) error {
		for k, l := range st.lots {
			if k.productUnitID == productUnitID && k.warehouseID == warehouseID {
				l := l
				out = append(out, &l)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiryDate.Equal(out[j].ExpiryDate) {
			return out[i].ExpiryDate.Before(out[j].ExpiryDate)
		}
		return out[i].LotNumber < out[j].LotNumber
	})
	return out, err
}

type stockDocumentRepo struct{ a access }

func (r *stockDocumentRepo) Create(ctx context.Context, doc *entity.StockDocument) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.documents[doc.ID]; ok {
			return domain.ErrInvalidInput
		}
		st.documents[doc.ID] = copyDocument(*doc)
		return nil
	})
}

func (r *stockDocumentRepo) GetByID(_ context.Context, id string) (*entity.StockDocument, error) {
	var out *entity.StockDocument
	err := r.a.read(func(st *state) error {
		if d, ok := st.documents[id]; ok {
			c := copyDocument(d)
			sort.SliceStable(c.Lines, func(i, j int) bool { return c.Lines[i].Position < c.Lines[j].Position })
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *stockDocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockDocument, error) {
	return r.GetByID(ctx, id)
}

// Update persiste solo la cabecera; las líneas se gestionan con AddLine/DeleteLine.
func (r *stockDocumentRepo) Update(ctx context.Context, doc *entity.StockDocument) error {
	return r.a.write(ctx, func(st *state) error {
		cur, ok := st.documents[doc.ID]
		if !ok {
			return domain.ErrNotFound
		}
		next := copyDocument(*doc)
		next.Lines = cur.Lines
		st.documents[doc.ID] = next
		return nil
	})
}

func (r *stockDocumentRepo) AddLine(ctx context.Context, line *entity.DocumentLine) error {
	return r.a.write(ctx, func(st *state) error {
		d, ok := st.documents[line.DocumentID]
		if !ok {
			return domain.ErrNotFound
		}
		d.Lines = append(d.Lines, *line)
		st.documents[d.ID] = d
		return nil
	})
}

func (r *stockDocumentRepo) DeleteLine(ctx context.Context, documentID, lineID string) error {
	return r.a.write(ctx, func(st *state) error {
		d, ok := st.documents[documentID]
		if !ok {
			return domain.ErrNotFound
		}
		lines := make([]entity.DocumentLine, 0, len(d.Lines))
		for _, l := range d.Lines {
			if l.ID != lineID {
				lines = append(lines, l)
			}
		}
		if len(lines) == len(d.Lines) {
			return domain.ErrNotFound
		}
		d.Lines = lines
		st.documents[documentID] = d
		return nil
	})
}

// List más recientes primero.
func (r *stockDocumentRepo) List(_ context.Context, f repository.DocumentFilter) ([]*entity.StockDocument, int, error) {
	var all []*entity.StockDocument
	err := r.a.read(func(st *state) error {
		for _, d := range st.documents {
			if f.WarehouseID != "" && d.WarehouseID != f.WarehouseID {
				continue
			}
			if f.Status != "" && d.Status != f.Status {
				continue
			}
			if f.Type != "" && d.Type != f.Type {
				continue
			}
			h := d
			h.Lines = nil
			all = append(all, &h)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return page(all, f.Limit, f.Offset), len(all), nil
}

type stocktakingRepo struct{ a access }

func (r *stocktakingRepo) Create(ctx context.Context, s *entity.StocktakingSession) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.sessions[s.ID]; ok {
			return domain.ErrInvalidInput
		}
		st.sessions[s.ID] = copySession(*s)
		return nil
	})
}

func (r *stocktakingRepo) GetByID(_ context.Context, id string) (*entity.StocktakingSession, error) {
	var out *entity.StocktakingSession
	err := r.a.read(func(st *state) error {
		if s, ok := st.sessions[id]; ok {
			c := copySession(s)
			sort.SliceStable(c.Items, func(i, j int) bool { return c.Items[i].Position < c.Items[j].Position })
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *stocktakingRepo) GetForUpdate(ctx context.Context, id string) (*entity.StocktakingSession, error) {
	return r.GetByID(ctx, id)
}

func (r *stocktakingRepo) Update(ctx context.Context, s *entity.StocktakingSession) error {
	return r.a.write(ctx, func(st *state) error {
		cur, ok := st.sessions[s.ID]
		if !ok {
			return domain.ErrNotFound
		}
		next := copySession(*s)
		next.Items = cur.Items
		st.sessions[s.ID] = next
		return nil
	})
}

func (r *stocktakingRepo) SaveItem(ctx context.Context, item *entity.CheckItem) error {
	return r.a.write(ctx, func(st *state) error {
		s, ok := st.sessions[item.CheckID]
		if !ok {
			return domain.ErrNotFound
		}
		for i := range s.Items {
			if s.Items[i].ID == item.ID {
				s.Items[i] = *item
				st.sessions[s.ID] = s
				return nil
			}
		}
		s.Items = append(s.Items, *item)
		st.sessions[s.ID] = s
		return nil
	})
}

func (r *stocktakingRepo) List(_ context.Context, f repository.SessionFilter) ([]*entity.StocktakingSession, int, error) {
	var all []*entity.StocktakingSession
	err := r.a.read(func(st *state) error {
		for _, s := range st.sessions {
			if f.WarehouseID != "" && s.WarehouseID != f.WarehouseID {
				continue
			}
			if f.Status != "" && s.Status != f.Status {
				continue
			}
			h := s
			h.Items = nil
			all = append(all, &h)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return page(all, f.Limit, f.Offset), len(all), nil
}

type stockMovementRepo struct{ a access }

func (r *stockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	return r.a.write(ctx, func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *stockMovementRepo) ListBySource(_ context.Context, sourceType, sourceID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.a.read(func(st *state) error {
		for _, m := range st.movements {
			if m.SourceType == sourceType && m.SourceID == sourceID {
				m := m
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// Balances devuelve una copia de todas las filas del ledger; útil para verificar invariantes.
func (s *Store) Balances() []entity.StockBalance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.StockBalance, 0, len(s.committed.balances))
	for _, b := range s.committed.balances {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out
}

// TotalQuantity suma la existencia de todas las filas.
func (s *Store) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.Balances() {
		total = total.Add(b.Quantity)
	}
	return total
}
