package invoice

import (
	"github.com/georgemunganga/printa-backoffice/internal/modules/order"
	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
)

// Render projects a persisted order onto an invoice. It reads its arguments
// only, so equal inputs always yield equal views.
func Render(s *shop.Shop, o *order.Order) View {
	lines := make([]LineItem, len(o.Items))
	for i, it := range o.Items {
		lines[i] = LineItem{
			Position:    it.Position,
			Description: it.ItemName,
			Quantity:    it.Quantity,
			UnitPrice:   money(it.UnitPrice),
			Amount:      money(it.LineTotal),
		}
	}
	return View{
		InvoiceNumber: o.OrderNumber,
		OrderID:       o.ID,
		Header: Header{
			ShopID:   s.ID,
			ShopName: s.Name,
			ShopType: string(s.Type),
		},
		Lines:       lines,
		Subtotal:    money(o.Subtotal),
		Discount:    money(o.Discount),
		FinalAmount: money(o.Total),
		Currency:    o.Currency,
		Status:      string(o.Status),
		Notes:       o.Notes,
		OrderedAt:   o.OrderedAt,
	}
}
