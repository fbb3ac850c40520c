// Package mockapi is a development stand-in for the remote backend:
// the sale acceptance endpoint and the product catalog. It exists so
// the offline-first flow can be exercised end to end on a laptop,
// including partial-sync failures via failure injection.
package mockapi

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/sikahq/sikapos/internal/catalog"
	"github.com/sikahq/sikapos/internal/pos"
	"github.com/sikahq/sikapos/internal/salesync"
)

// Options configures the mock server.
type Options struct {
	// FailAfter, when positive, accepts that many sale submissions and
	// rejects every one after. Used to exercise partial sync.
	FailAfter int
	// Products overrides the built-in sample catalog.
	Products []catalog.Product
}

// Server records accepted sale payloads, deduplicated by receipt
// number — the contract the at-least-once sync delivery relies on.
type Server struct {
	opts Options

	mu        sync.Mutex
	accepted  []salesync.SalePayload
	byReceipt map[string]bool
}

// New creates a mock server.
func New(opts Options) *Server {
	if opts.Products == nil {
		opts.Products = sampleProducts
	}
	return &Server{opts: opts, byReceipt: map[string]bool{}}
}

// Router builds the gin engine serving the mock endpoints.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/api/sales", s.handleCreateSale)
	r.GET("/api/products", s.handleListProducts)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	return r
}

// Accepted returns a copy of the accepted payloads, in arrival order.
func (s *Server) Accepted() []salesync.SalePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]salesync.SalePayload(nil), s.accepted...)
}

func (s *Server) handleCreateSale(c *gin.Context) {
	var payload salesync.SalePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.String(http.StatusBadRequest, "invalid sale payload")
		return
	}
	if payload.ReceiptNumber == "" || len(payload.Items) == 0 {
		c.String(http.StatusBadRequest, "receiptNumber and items are required")
		return
	}
	if !pos.PaymentMethod(payload.PaymentMethod).Valid() {
		c.String(http.StatusBadRequest, "unknown payment method")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Retries of an already-accepted sale succeed without duplicating.
	if s.byReceipt[payload.ReceiptNumber] {
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	if s.opts.FailAfter > 0 && len(s.accepted) >= s.opts.FailAfter {
		c.String(http.StatusServiceUnavailable, "sales backend unavailable")
		return
	}

	s.accepted = append(s.accepted, payload)
	s.byReceipt[payload.ReceiptNumber] = true
	c.JSON(http.StatusCreated, gin.H{"status": "accepted"})
}

func (s *Server) handleListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, s.opts.Products)
}

var sampleProducts = []catalog.Product{
	{ID: "prod-001", Name: "Bottled Water 500ml", SellingPrice: 2.50},
	{ID: "prod-002", Name: "Bread Loaf", SellingPrice: 12.00},
	{ID: "prod-003", Name: "Fresh Milk 1L", SellingPrice: 18.50},
	{ID: "prod-004", Name: "Rice 5kg", SellingPrice: 95.00},
	{ID: "prod-005", Name: "Cooking Oil 1L", SellingPrice: 42.00},
}
