package salesync

import "github.com/sikahq/sikapos/internal/pos"

// SalePayload is the wire shape accepted by the remote sales endpoint.
// The receipt number doubles as the natural idempotency key: delivery
// is at-least-once (a crash between remote acceptance and the local
// synced flag resubmits the sale), so the remote side deduplicates by
// receiptNumber.
type SalePayload struct {
	ReceiptNumber string            `json:"receiptNumber"`
	UserID        string            `json:"userId"`
	PaymentMethod string            `json:"paymentMethod"`
	Discount      float64           `json:"discount"`
	Subtotal      float64           `json:"subtotal"`
	TotalAmount   float64           `json:"totalAmount"`
	CustomerName  string            `json:"customerName,omitempty"`
	Items         []SaleItemPayload `json:"items"`
}

// SaleItemPayload reduces a line item to what the remote side needs.
// The display name is intentionally dropped; the remote resolves it
// from productId.
type SaleItemPayload struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

func buildPayload(sale pos.Sale) SalePayload {
	items := make([]SaleItemPayload, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, SaleItemPayload{
			ProductID: item.ID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return SalePayload{
		ReceiptNumber: sale.ReceiptNumber,
		UserID:        sale.UserID,
		PaymentMethod: string(sale.PaymentMethod),
		Discount:      sale.Discount,
		Subtotal:      sale.Subtotal,
		TotalAmount:   sale.TotalAmount,
		CustomerName:  sale.CustomerName,
		Items:         items,
	}
}
