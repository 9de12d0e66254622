package inventory

import (
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/shopspring/decimal"
)

// Requirement cantidad requerida de un producto.
type Requirement struct {
	ProductUnitID string
	Quantity      decimal.Decimal
}

// SumRequirements agrupa por producto conservando el orden de primera aparición.
func SumRequirements(reqs []Requirement) []Requirement {
	idx := make(map[string]int, len(reqs))
	out := make([]Requirement, 0, len(reqs))
	for _, r := range reqs {
		if i, ok := idx[r.ProductUnitID]; ok {
			out[i].Quantity = out[i].Quantity.Add(r.Quantity)
			continue
		}
		idx[r.ProductUnitID] = len(out)
		out = append(out, r)
	}
	return out
}

// ComputeShortages compara cada requerimiento (ya agrupado) contra lo disponible.
// Un producto es faltante cuando disponible < requerido.
func ComputeShortages(reqs []Requirement, available func(productUnitID string) decimal.Decimal) []domain.Shortage {
	var shortages []domain.Shortage
	for _, r := range reqs {
		avail := available(r.ProductUnitID)
		if avail.LessThan(r.Quantity) {
			shortages = append(shortages, domain.Shortage{
				ProductUnitID: r.ProductUnitID,
				Required:      r.Quantity,
				Available:     avail,
			})
		}
	}
	return shortages
}
