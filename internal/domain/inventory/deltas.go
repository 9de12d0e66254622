package inventory

import (
	"sort"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RowDelta delta neto sobre una fila del ledger.
type RowDelta struct {
	Key   entity.BalanceKey
	Delta decimal.Decimal
}

// AggregateDocumentDeltas suma las líneas por fila en orden de captura.
// Las salidas producen deltas negativos; una fila recibe un solo delta por documento.
func AggregateDocumentDeltas(doc *entity.StockDocument) []RowDelta {
	lines := make([]entity.DocumentLine, len(doc.Lines))
	copy(lines, doc.Lines)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Position < lines[j].Position })

	idx := make(map[entity.BalanceKey]int, len(lines))
	out := make([]RowDelta, 0, len(lines))
	for _, l := range lines {
		q := l.Quantity
		if doc.Type == entity.DocumentTypeOutbound {
			q = q.Neg()
		}
		key := doc.BalanceKey(l.ProductUnitID)
		if i, ok := idx[key]; ok {
			out[i].Delta = out[i].Delta.Add(q)
			continue
		}
		idx[key] = len(out)
		out = append(out, RowDelta{Key: key, Delta: q})
	}
	return out
}

// SortedKeys devuelve las claves sin duplicados en orden de bloqueo.
func SortedKeys(keys []entity.BalanceKey) []entity.BalanceKey {
	seen := make(map[entity.BalanceKey]struct{}, len(keys))
	out := make([]entity.BalanceKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
