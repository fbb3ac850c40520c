package pos

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PaymentMethod identifies how a sale was paid for.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "CASH"
	PaymentMobileMoney PaymentMethod = "MOBILE_MONEY"
	PaymentCard        PaymentMethod = "CARD"
	PaymentTransfer    PaymentMethod = "TRANSFER"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentMobileMoney, PaymentCard, PaymentTransfer}

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentMobileMoney, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// DefaultUserID is the operator recorded on sales completed without an
// authenticated user (offline operation).
const DefaultUserID = "offline-user"

// CartItem is one product line inside a cart or a completed sale.
// Price is the unit price captured at completion time.
type CartItem struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Price    float64 `json:"price" yaml:"price"`
	Quantity int     `json:"quantity" yaml:"quantity"`
}

// Total returns the line total, price times quantity.
func (i CartItem) Total() float64 {
	return i.Price * float64(i.Quantity)
}

// Sale is one completed transaction.
//
// Subtotal, TotalAmount and each line's total are snapshots taken at
// completion time. They are stored redundantly and never recomputed on
// read, so later catalog price changes leave historical sales intact.
type Sale struct {
	ID            string        `json:"id"`
	ReceiptNumber string        `json:"receiptNumber"`
	UserID        string        `json:"userId"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	Items         []CartItem    `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Discount      float64       `json:"discount"`
	TotalAmount   float64       `json:"totalAmount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CustomerName  string        `json:"customerName,omitempty"`
	Synced        bool          `json:"synced"`
}

// NewSale builds a Sale at completion time: a fresh UUID, a
// timestamp-derived receipt number, display date/time strings, and
// totals snapshotted from the cart. The sale starts unsynced.
//
// Returns an error for an empty cart, a non-positive quantity, a
// negative discount, or an unknown payment method.
func NewSale(now time.Time, userID string, items []CartItem, discount float64, method PaymentMethod, customerName string) (Sale, error) {
	if len(items) == 0 {
		return Sale{}, fmt.Errorf("new sale: empty cart")
	}
	if discount < 0 {
		return Sale{}, fmt.Errorf("new sale: negative discount %v", discount)
	}
	if !method.Valid() {
		return Sale{}, fmt.Errorf("new sale: invalid payment method %q", method)
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return Sale{}, fmt.Errorf("new sale: item %q has non-positive quantity %d", item.ID, item.Quantity)
		}
	}
	if userID == "" {
		userID = DefaultUserID
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.Total()
	}

	return Sale{
		ID:            uuid.Must(uuid.NewV7()).String(),
		ReceiptNumber: ReceiptNumber(now),
		UserID:        userID,
		Date:          now.Format("1/2/2006"),
		Time:          now.Format("3:04:05 PM"),
		Items:         append([]CartItem(nil), items...),
		Subtotal:      subtotal,
		Discount:      discount,
		TotalAmount:   subtotal - discount,
		PaymentMethod: method,
		CustomerName:  customerName,
		Synced:        false,
	}, nil
}

// ReceiptNumber derives a human-readable receipt number from a
// timestamp: POS-YYYYMMDD-<last four digits of unix millis>. Not
// globally unique, but unique enough for display and search.
func ReceiptNumber(now time.Time) string {
	millis := fmt.Sprintf("%d", now.UnixMilli())
	return fmt.Sprintf("POS-%s-%s", now.Format("20060102"), millis[len(millis)-4:])
}
