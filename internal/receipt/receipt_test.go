package receipt

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/sikahq/sikapos/internal/config"
	"github.com/sikahq/sikapos/internal/pos"
)

var testShop = config.ShopInfo{
	ShopName:    "Sika Mart",
	Address:     "12 Osu Road, Accra",
	PhoneNumber: "030-123-4567",
}

var testSale = pos.Sale{
	ID:            "0198f8a0-0000-7000-8000-000000000001",
	ReceiptNumber: "POS-20260829-5123",
	UserID:        "cashier-1",
	Date:          "8/29/2026",
	Time:          "2:30:05 PM",
	Items: []pos.CartItem{
		{ID: "prod-001", Name: "Bottled Water", Price: 2.50, Quantity: 2},
		{ID: "prod-002", Name: "Bread Roll", Price: 1.00, Quantity: 1},
	},
	Subtotal:      6.00,
	Discount:      1.50,
	TotalAmount:   4.50,
	PaymentMethod: pos.PaymentMobileMoney,
	CustomerName:  "Ama",
}

func TestRender_Golden(t *testing.T) {
	r := NewRenderer(testShop)

	out := r.Render(testSale)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "receipt_full", []byte(out))
}

func TestRender_OmitsEmptyOptionalFields(t *testing.T) {
	sale := testSale
	sale.CustomerName = ""
	sale.Discount = 0
	sale.TotalAmount = sale.Subtotal

	out := NewRenderer(config.ShopInfo{ShopName: "Sika Mart"}).Render(sale)

	assert.NotContains(t, out, "Customer:")
	assert.NotContains(t, out, "Discount:")
	assert.NotContains(t, out, "Phone:")
	assert.Contains(t, out, "TOTAL:")
}

func TestRender_TruncatesLongItemNames(t *testing.T) {
	sale := testSale
	sale.Items = []pos.CartItem{
		{ID: "prod-003", Name: "Extra Long Product Name That Overflows", Price: 1.00, Quantity: 1},
	}

	out := NewRenderer(testShop).Render(sale)

	assert.Contains(t, out, "Extra Long Produc…")
	assert.NotContains(t, out, "Overflows")
}

func TestRender_GroupsThousands(t *testing.T) {
	sale := testSale
	sale.Subtotal = 12500
	sale.Discount = 0
	sale.TotalAmount = 12500

	out := NewRenderer(testShop).Render(sale)

	assert.Contains(t, out, "₵12,500.00")
}

func TestRender_LineWidth(t *testing.T) {
	out := NewRenderer(testShop).Render(testSale)

	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), width, "line %q", line)
	}
}
