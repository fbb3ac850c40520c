package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/sikahq/sikapos/internal/pos"
)

// AllSales returns every sale ordered by createdAt descending (most
// recent first), each with its line items attached in stored row order.
//
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) AllSales(ctx context.Context) ([]pos.Sale, error) {
	return s.querySales(ctx, `
		SELECT id, receiptNumber, userId, subtotal, discount, totalAmount,
		       paymentMethod, customerName, date, time, synced
		FROM sales
		ORDER BY datetime(createdAt) DESC, rowid DESC
	`)
}

// PendingSales returns sales with synced=false ordered by createdAt
// ascending, so the sync engine pushes oldest-first (FIFO). datetime()
// truncates to whole seconds, so rowid breaks same-second ties.
func (s *Store) PendingSales(ctx context.Context) ([]pos.Sale, error) {
	return s.querySales(ctx, `
		SELECT id, receiptNumber, userId, subtotal, discount, totalAmount,
		       paymentMethod, customerName, date, time, synced
		FROM sales
		WHERE synced = 0
		ORDER BY datetime(createdAt) ASC, rowid ASC
	`)
}

// PendingCount returns the number of unsynced sales without
// materializing them.
func (s *Store) PendingCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales WHERE synced = 0`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending sales: %w", err)
	}
	return count, nil
}

// ReadSale retrieves a single sale by id with its line items.
// Returns ErrNotFound if no such sale exists.
func (s *Store) ReadSale(ctx context.Context, saleID string) (pos.Sale, error) {
	sales, err := s.querySales(ctx, `
		SELECT id, receiptNumber, userId, subtotal, discount, totalAmount,
		       paymentMethod, customerName, date, time, synced
		FROM sales
		WHERE id = ?
	`, saleID)
	if err != nil {
		return pos.Sale{}, err
	}
	if len(sales) == 0 {
		return pos.Sale{}, ErrNotFound
	}
	return sales[0], nil
}

func (s *Store) querySales(ctx context.Context, query string, args ...any) ([]pos.Sale, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []pos.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}

	// One sub-query per sale; item row order matches insertion order.
	for i := range sales {
		items, err := s.saleItems(ctx, sales[i].ID)
		if err != nil {
			return nil, err
		}
		sales[i].Items = items
	}

	if sales == nil {
		sales = []pos.Sale{}
	}

	return sales, nil
}

func (s *Store) saleItems(ctx context.Context, saleID string) ([]pos.CartItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT productId, name, quantity, price
		FROM sale_items
		WHERE saleId = ?
		ORDER BY rowid ASC
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("query sale items: %w", err)
	}
	defer rows.Close()

	items := []pos.CartItem{}
	for rows.Next() {
		var (
			productID, name sql.NullString
			quantity, price any
		)
		if err := rows.Scan(&productID, &name, &quantity, &price); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, pos.CartItem{
			ID:       productID.String,
			Name:     name.String,
			Quantity: int(coerceInt(quantity, "quantity", saleID)),
			Price:    coerceFloat(price, "price", saleID),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale items: %w", err)
	}

	return items, nil
}

func scanSale(rows *sql.Rows) (pos.Sale, error) {
	var (
		id, receipt, userID, payment, customer, date, saleTime sql.NullString
		subtotal, discount, total, synced                      any
	)
	err := rows.Scan(&id, &receipt, &userID, &subtotal, &discount, &total,
		&payment, &customer, &date, &saleTime, &synced)
	if err != nil {
		return pos.Sale{}, fmt.Errorf("scan sale: %w", err)
	}

	return pos.Sale{
		ID:            id.String,
		ReceiptNumber: receipt.String,
		UserID:        userID.String,
		Subtotal:      coerceFloat(subtotal, "subtotal", id.String),
		Discount:      coerceFloat(discount, "discount", id.String),
		TotalAmount:   coerceFloat(total, "totalAmount", id.String),
		PaymentMethod: pos.PaymentMethod(payment.String),
		CustomerName:  customer.String,
		Date:          date.String,
		Time:          saleTime.String,
		Synced:        coerceInt(synced, "synced", id.String) == 1,
	}, nil
}

// coerceFloat defensively converts a stored value to float64. Malformed
// values collapse to 0 so read paths stay available, but a warning is
// logged so corruption is not completely silent.
func coerceFloat(v any, column, saleID string) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case int64:
		return float64(n)
	case []byte:
		return parseFloat(string(n), column, saleID)
	case string:
		return parseFloat(n, column, saleID)
	default:
		slog.Warn("coercing unexpected column type to 0",
			"column", column, "sale_id", saleID, "type", fmt.Sprintf("%T", v))
		return 0
	}
}

func parseFloat(raw, column, saleID string) float64 {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Warn("coercing malformed numeric column to 0",
			"column", column, "sale_id", saleID, "value", raw)
		return 0
	}
	return f
}

// coerceInt mirrors coerceFloat for integer columns.
func coerceInt(v any, column, saleID string) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int64:
		return n
	case float64:
		return int64(n)
	case []byte:
		return parseInt(string(n), column, saleID)
	case string:
		return parseInt(n, column, saleID)
	default:
		slog.Warn("coercing unexpected column type to 0",
			"column", column, "sale_id", saleID, "type", fmt.Sprintf("%T", v))
		return 0
	}
}

func parseInt(raw, column, saleID string) int64 {
	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Warn("coercing malformed integer column to 0",
			"column", column, "sale_id", saleID, "value", raw)
		return 0
	}
	return i
}
