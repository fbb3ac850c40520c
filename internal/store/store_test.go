package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/sikahq/sikapos/internal/pos"
	"github.com/sikahq/sikapos/internal/testutil"
)

func newTestStore(t *testing.T) (*Store, *MemorySlot) {
	t.Helper()

	slot := NewMemorySlot()
	s, err := Open(slot)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	clock := testutil.NewStepClock(time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC), time.Second)
	s.now = clock.Now

	return s, slot
}

func testSale(id, receipt string) pos.Sale {
	return pos.Sale{
		ID:            id,
		ReceiptNumber: receipt,
		UserID:        "offline-user",
		Date:          "8/29/2026",
		Time:          "10:00:00 AM",
		Items: []pos.CartItem{
			{ID: "prod-001", Name: "Bottled Water 500ml", Price: 2.50, Quantity: 2},
			{ID: "prod-002", Name: "Bread Loaf", Price: 1.00, Quantity: 1},
		},
		Subtotal:      6.00,
		Discount:      0,
		TotalAmount:   6.00,
		PaymentMethod: pos.PaymentCash,
		CustomerName:  "Ama",
		Synced:        false,
	}
}

func TestOpen_EmptySlotPersistsInitialSnapshot(t *testing.T) {
	slot := NewMemorySlot()

	s, err := Open(slot)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, ok, _ := slot.Load(); !ok {
		t.Error("empty slot was not primed with an initial snapshot")
	}

	sales, err := s.AllSales(context.Background())
	if err != nil {
		t.Fatalf("AllSales() failed: %v", err)
	}
	if len(sales) != 0 {
		t.Errorf("fresh store has %d sales, want 0", len(sales))
	}
}

func TestSaveSale_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	sale := testSale("sale-1", "POS-20260829-0001")
	if err := s.SaveSale(ctx, sale); err != nil {
		t.Fatalf("SaveSale() failed: %v", err)
	}

	sales, err := s.AllSales(ctx)
	if err != nil {
		t.Fatalf("AllSales() failed: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("got %d sales, want 1", len(sales))
	}

	if !reflect.DeepEqual(sales[0], sale) {
		t.Errorf("round-trip mismatch:\ngot  %+v\nwant %+v", sales[0], sale)
	}
}

func TestSaveSale_ReplacesItems(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	sale := testSale("sale-1", "POS-20260829-0001")
	if err := s.SaveSale(ctx, sale); err != nil {
		t.Fatalf("first SaveSale() failed: %v", err)
	}

	sale.Items = []pos.CartItem{{ID: "prod-009", Name: "Eggs", Price: 3.00, Quantity: 6}}
	if err := s.SaveSale(ctx, sale); err != nil {
		t.Fatalf("second SaveSale() failed: %v", err)
	}

	got, err := s.ReadSale(ctx, "sale-1")
	if err != nil {
		t.Fatalf("ReadSale() failed: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].ID != "prod-009" {
		t.Errorf("items were not fully replaced: %+v", got.Items)
	}
}

func TestOrdering_HistoryDescendingPendingAscending(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a := testSale("sale-a", "POS-20260829-000A")
	b := testSale("sale-b", "POS-20260829-000B")

	if err := s.SaveSale(ctx, a); err != nil {
		t.Fatalf("SaveSale(a) failed: %v", err)
	}
	if err := s.SaveSale(ctx, b); err != nil {
		t.Fatalf("SaveSale(b) failed: %v", err)
	}

	all, err := s.AllSales(ctx)
	if err != nil {
		t.Fatalf("AllSales() failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != "sale-b" || all[1].ID != "sale-a" {
		t.Errorf("AllSales order = [%s %s], want [sale-b sale-a]", all[0].ID, all[1].ID)
	}

	pending, err := s.PendingSales(ctx)
	if err != nil {
		t.Fatalf("PendingSales() failed: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "sale-a" || pending[1].ID != "sale-b" {
		t.Errorf("PendingSales order = [%s %s], want [sale-a sale-b]", pending[0].ID, pending[1].ID)
	}
}

func TestMarkSynced_Idempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveSale(ctx, testSale("sale-1", "POS-20260829-0001")); err != nil {
		t.Fatalf("SaveSale() failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.MarkSynced(ctx, "sale-1"); err != nil {
			t.Fatalf("MarkSynced() call %d failed: %v", i+1, err)
		}
	}

	got, err := s.ReadSale(ctx, "sale-1")
	if err != nil {
		t.Fatalf("ReadSale() failed: %v", err)
	}
	if !got.Synced {
		t.Error("sale not marked synced")
	}

	count, err := s.PendingCount(ctx)
	if err != nil {
		t.Fatalf("PendingCount() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("PendingCount() = %d, want 0", count)
	}
}

func TestMarkSynced_UnknownIDIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.MarkSynced(context.Background(), "no-such-sale"); err != nil {
		t.Errorf("MarkSynced() on unknown id should be a no-op, got %v", err)
	}
}

func TestDeleteSale_CascadesToItems(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveSale(ctx, testSale("sale-1", "POS-20260829-0001")); err != nil {
		t.Fatalf("SaveSale() failed: %v", err)
	}
	if err := s.DeleteSale(ctx, "sale-1"); err != nil {
		t.Fatalf("DeleteSale() failed: %v", err)
	}

	if _, err := s.ReadSale(ctx, "sale-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadSale() after delete = %v, want ErrNotFound", err)
	}

	var items int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sale_items WHERE saleId = ?`, "sale-1").Scan(&items); err != nil {
		t.Fatalf("count items: %v", err)
	}
	if items != 0 {
		t.Errorf("%d line items survived the delete, want 0", items)
	}
}

func TestSnapshot_SurvivesReopen(t *testing.T) {
	slot := NewMemorySlot()

	s1, err := Open(slot)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}

	sale := testSale("sale-1", "POS-20260829-0001")
	if err := s1.SaveSale(context.Background(), sale); err != nil {
		t.Fatalf("SaveSale() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(slot)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()

	got, err := s2.ReadSale(context.Background(), "sale-1")
	if err != nil {
		t.Fatalf("ReadSale() after reopen failed: %v", err)
	}
	if !reflect.DeepEqual(got, sale) {
		t.Errorf("reloaded sale mismatch:\ngot  %+v\nwant %+v", got, sale)
	}
}

func TestOpen_CorruptSlot(t *testing.T) {
	cases := []struct {
		name string
		blob []byte
	}{
		{"invalid base64", []byte("!!! definitely not base64 !!!")},
		{"valid base64 garbage", []byte("bm90IGEgc3FsaXRlIGRhdGFiYXNlIGltYWdlIGF0IGFsbA==")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slot := NewMemorySlot()
			if err := slot.Store(tc.blob); err != nil {
				t.Fatalf("seed slot: %v", err)
			}

			_, err := Open(slot)
			if !errors.Is(err, ErrCorruptSnapshot) {
				t.Errorf("Open() = %v, want ErrCorruptSnapshot", err)
			}
		})
	}
}

func TestRead_CoercesMalformedNumerics(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveSale(ctx, testSale("sale-1", "POS-20260829-0001")); err != nil {
		t.Fatalf("SaveSale() failed: %v", err)
	}

	if _, err := s.db.Exec(`UPDATE sales SET subtotal = 'not-a-number', discount = NULL WHERE id = 'sale-1'`); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	got, err := s.ReadSale(ctx, "sale-1")
	if err != nil {
		t.Fatalf("ReadSale() failed: %v", err)
	}
	if got.Subtotal != 0 {
		t.Errorf("Subtotal = %v, want coerced 0", got.Subtotal)
	}
	if got.Discount != 0 {
		t.Errorf("Discount = %v, want coerced 0", got.Discount)
	}
	// Untouched columns keep their values.
	if got.TotalAmount != 6.00 {
		t.Errorf("TotalAmount = %v, want 6.00", got.TotalAmount)
	}
}

func TestLoader_SingleFlight(t *testing.T) {
	loader := NewLoader(NewMemorySlot())

	const callers = 8
	stores := make(chan *Store, callers)
	for i := 0; i < callers; i++ {
		go func() {
			s, err := loader.Get()
			if err != nil {
				t.Errorf("Get() failed: %v", err)
			}
			stores <- s
		}()
	}

	first := <-stores
	for i := 1; i < callers; i++ {
		if got := <-stores; got != first {
			t.Error("concurrent Get() returned different store instances")
		}
	}
	first.Close()
}
