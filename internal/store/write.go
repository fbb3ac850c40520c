package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sikahq/sikapos/internal/pos"
)

// SaveSale upserts the sales row (insert-or-replace by id) and fully
// replaces the sale's line items. createdAt is stamped with the current
// time on every call, so re-saving an existing id refreshes its
// position in createdAt ordering; this matches the historical behavior
// callers depend on.
//
// The statements run in one transaction, followed by a full-snapshot
// flush to the slot.
func (s *Store) SaveSale(ctx context.Context, sale pos.Sale) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save sale: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO sales
		(id, receiptNumber, userId, subtotal, discount, totalAmount,
		 paymentMethod, customerName, date, time, synced, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sale.ID,
		sale.ReceiptNumber,
		sale.UserID,
		sale.Subtotal,
		sale.Discount,
		sale.TotalAmount,
		string(sale.PaymentMethod),
		sale.CustomerName,
		sale.Date,
		sale.Time,
		boolToInt(sale.Synced),
		s.now().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save sale: insert sale: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_items WHERE saleId = ?`, sale.ID); err != nil {
		return fmt.Errorf("save sale: clear items: %w", err)
	}

	for i, item := range sale.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sale_items (id, saleId, productId, name, quantity, price, total)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			fmt.Sprintf("%s-item-%d", sale.ID, i),
			sale.ID,
			item.ID,
			item.Name,
			item.Quantity,
			item.Price,
			item.Total(),
		)
		if err != nil {
			return fmt.Errorf("save sale: insert item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save sale: commit: %w", err)
	}

	return s.persist(ctx)
}

// MarkSynced flips a sale's synced flag to true. Silently a no-op when
// the id does not exist, so repeated calls and retries are safe. The
// flag never transitions back to false.
func (s *Store) MarkSynced(ctx context.Context, saleID string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE sales SET synced = 1 WHERE id = ?`, saleID); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return s.persist(ctx)
}

// DeleteSale removes the sale and all its line items. Items are deleted
// first so the cascade holds even without foreign-key enforcement.
// Deleting an unknown id is a silent no-op.
func (s *Store) DeleteSale(ctx context.Context, saleID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete sale: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_items WHERE saleId = ?`, saleID); err != nil {
		return fmt.Errorf("delete sale: items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, saleID); err != nil {
		return fmt.Errorf("delete sale: sale: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete sale: commit: %w", err)
	}

	return s.persist(ctx)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
