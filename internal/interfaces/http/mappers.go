package http

import (
	"time"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// parseDate acepta vacío (nil) o YYYY-MM-DD; el formato ya lo validó validator.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func documentToDTO(d *entity.StockDocument) dto.DocumentResponse {
	out := dto.DocumentResponse{
		ID:              d.ID,
		Type:            string(d.Type),
		Status:          string(d.Status),
		WarehouseID:     d.WarehouseID,
		StockLocationID: d.StockLocationID,
		ReferenceNumber: d.ReferenceNumber,
		Note:            d.Note,
		CreatedBy:       d.CreatedBy,
		DecidedBy:       d.DecidedBy,
		RejectionReason: d.RejectionReason,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		DecidedAt:       d.DecidedAt,
	}
	if len(d.Lines) > 0 {
		out.Lines = make([]dto.DocumentLineResponse, 0, len(d.Lines))
		for _, l := range d.Lines {
			out.Lines = append(out.Lines, dto.DocumentLineResponse{
				ID:                  l.ID,
				Position:            l.Position,
				ProductUnitID:       l.ProductUnitID,
				Quantity:            l.Quantity,
				LotNumber:           l.LotNumber,
				ManufacturingDate:   formatDate(l.ManufacturingDate),
				ExpiryDate:          formatDate(l.ExpiryDate),
				SupplierName:        l.SupplierName,
				SupplierBatchNumber: l.SupplierBatchNumber,
			})
		}
	}
	return out
}

func sessionToDTO(s *entity.StocktakingSession) dto.SessionResponse {
	out := dto.SessionResponse{
		ID:              s.ID,
		Status:          string(s.Status),
		WarehouseID:     s.WarehouseID,
		StockLocationID: s.StockLocationID,
		Note:            s.Note,
		CreatedBy:       s.CreatedBy,
		ConfirmedBy:     s.ConfirmedBy,
		CancelReason:    s.CancelReason,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		StartedAt:       s.StartedAt,
		ConfirmedAt:     s.ConfirmedAt,
		CancelledAt:     s.CancelledAt,
		Discrepancies:   s.DiscrepancyCount(),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.CheckItemResponse{
			ID:             it.ID,
			Position:       it.Position,
			ProductUnitID:  it.ProductUnitID,
			SystemQuantity: it.SystemQuantity,
			ActualQuantity: it.ActualQuantity,
			Difference:     it.Difference,
			Status:         string(it.Status),
			Note:           it.Note,
			UpdatedAt:      it.UpdatedAt,
		})
	}
	return out
}

func balanceToDTO(b *entity.StockBalance) dto.BalanceResponse {
	out := dto.BalanceResponse{
		ProductUnitID:     b.ProductUnitID,
		WarehouseID:       b.WarehouseID,
		StockLocationID:   b.StockLocationID,
		Quantity:          b.Quantity,
		ReservedQuantity:  b.ReservedQuantity,
		AvailableQuantity: b.AvailableQuantity(),
	}
	if !b.UpdatedAt.IsZero() {
		t := b.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func lotToDTO(l *entity.Lot) dto.LotResponse {
	return dto.LotResponse{
		ID:                  l.ID,
		LotNumber:           l.LotNumber,
		ProductUnitID:       l.ProductUnitID,
		WarehouseID:         l.WarehouseID,
		StockLocationID:     l.StockLocationID,
		ManufacturingDate:   formatDate(&l.ManufacturingDate),
		ExpiryDate:          formatDate(&l.ExpiryDate),
		SupplierName:        l.SupplierName,
		SupplierBatchNumber: l.SupplierBatchNumber,
		InitialQuantity:     l.InitialQuantity,
		DocumentID:          l.DocumentID,
		CreatedAt:           l.CreatedAt,
	}
}

func shortagesToDTO(in []domain.Shortage) []dto.ShortageDTO {
	out := make([]dto.ShortageDTO, 0, len(in))
	for _, s := range in {
		out = append(out, dto.ShortageDTO{
			ProductUnitID: s.ProductUnitID,
			Required:      s.Required,
			Available:     s.Available,
			Missing:       s.Missing(),
		})
	}
	return out
}
