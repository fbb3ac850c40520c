// Package receipt renders completed sales as plain-text receipts for
// terminal display and line printers.
package receipt

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sikahq/sikapos/internal/config"
	"github.com/sikahq/sikapos/internal/pos"
)

const width = 42

// currencySymbol is the Ghanaian cedi sign used across the app.
const currencySymbol = "₵"

// Renderer formats sales into receipts. Shop identity is injected
// configuration; amounts are printed with locale-aware grouping.
type Renderer struct {
	shop    config.ShopInfo
	printer *message.Printer
}

// NewRenderer creates a Renderer for the given shop identity.
func NewRenderer(shop config.ShopInfo) *Renderer {
	return &Renderer{
		shop:    shop,
		printer: message.NewPrinter(language.English),
	}
}

// Render produces the full receipt text for a sale, using the stored
// total snapshots rather than recomputing from line items.
func (r *Renderer) Render(sale pos.Sale) string {
	var b strings.Builder
	divider := strings.Repeat("-", width)

	b.WriteString(center(r.shop.ShopName) + "\n")
	if r.shop.Address != "" {
		b.WriteString(center(r.shop.Address) + "\n")
	}
	if r.shop.PhoneNumber != "" {
		b.WriteString(center("Phone: "+r.shop.PhoneNumber) + "\n")
	}
	b.WriteString(divider + "\n")

	if sale.CustomerName != "" {
		b.WriteString(labelled("Customer:", sale.CustomerName))
	}
	b.WriteString(labelled("Receipt #:", sale.ReceiptNumber))
	b.WriteString(labelled("Date:", sale.Date))
	b.WriteString(labelled("Time:", sale.Time))
	b.WriteString(labelled("Payment:", string(sale.PaymentMethod)))
	b.WriteString(divider + "\n")

	b.WriteString(fmt.Sprintf("%-18s %3s %9s %9s\n", "Item", "Qty", "Price", "Total"))
	for _, item := range sale.Items {
		b.WriteString(fmt.Sprintf("%-18s %3d %9s %9s\n",
			truncate(item.Name, 18),
			item.Quantity,
			r.amount(item.Price),
			r.amount(item.Total()),
		))
	}
	b.WriteString(divider + "\n")

	b.WriteString(labelled("Subtotal:", r.amount(sale.Subtotal)))
	if sale.Discount > 0 {
		b.WriteString(labelled("Discount:", r.amount(sale.Discount)))
	}
	b.WriteString(labelled("TOTAL:", r.amount(sale.TotalAmount)))
	b.WriteString(divider + "\n")

	b.WriteString(center("Thank you for your purchase!") + "\n")
	b.WriteString(center("Please come again") + "\n")

	return b.String()
}

// amount formats a monetary value with the cedi sign and locale-aware
// digit grouping, always two decimals.
func (r *Renderer) amount(v float64) string {
	return currencySymbol + r.printer.Sprintf("%.2f", v)
}

func labelled(label, value string) string {
	pad := width - len(label) - runeLen(value)
	if pad < 1 {
		pad = 1
	}
	return label + strings.Repeat(" ", pad) + value + "\n"
}

func center(s string) string {
	pad := (width - runeLen(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func runeLen(s string) int {
	return len([]rune(s))
}
