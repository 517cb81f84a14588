package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/erazemk/retailapi/internal/model"
)

const (
	orderColumns     = `id, customer_id, picked_key_id, order_number, total_amount, status, created_at, updated_at`
	orderItemColumns = `order_id, item_id, quantity, unit_price, subtotal, created_at, updated_at`
)

var tracer = otel.Tracer("github.com/erazemk/retailapi/internal/store")

// scanOrder maps one orders row onto a model.Order without its lines.
func scanOrder(row rowScanner) (model.Order, error) {
	var o model.Order
	var pickedKeyID sql.NullInt64
	err := row.Scan(&o.ID, &o.CustomerID, &pickedKeyID, &o.OrderNumber, &o.TotalAmount,
		&o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return model.Order{}, err
	}
	if pickedKeyID.Valid {
		o.PickedKeyID = &pickedKeyID.Int64
	}
	o.OrderItems = []model.OrderItem{}
	return o, nil
}

// scanOrderItem maps one order_items row onto a model.OrderItem.
func scanOrderItem(row rowScanner) (model.OrderItem, error) {
	var oi model.OrderItem
	err := row.Scan(&oi.OrderID, &oi.ItemID, &oi.Quantity, &oi.UnitPrice, &oi.Subtotal,
		&oi.CreatedAt, &oi.UpdatedAt)
	return oi, err
}

// CreateOrder inserts an order and its lines in one transaction. The total is
// the sum of the supplied subtotals. The returned order has no lines
// attached.
func CreateOrder(ctx context.Context, db TxBeginner, in model.OrderInput) (*model.Order, error) {
	ctx, span := tracer.Start(ctx, "store.CreateOrder")
	defer span.End()
	span.SetAttributes(attribute.Int("order.lines", len(in.Items)))

	order, err := createOrder(ctx, db, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("order.id", order.ID))
	return order, nil
}

func createOrder(ctx context.Context, db TxBeginner, in model.OrderInput) (*model.Order, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO orders (customer_id, picked_key_id, order_number, total_amount) VALUES (?, ?, ?, 0)`,
		in.CustomerID, in.PickedKeyID, in.OrderNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	orderID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting order id: %w", err)
	}

	total := decimal.Zero
	for i, line := range in.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, item_id, quantity, unit_price, subtotal) VALUES (?, ?, ?, ?, ?)`,
			orderID, line.ItemID, line.Quantity, line.UnitPrice, line.Subtotal,
		)
		if err != nil {
			return nil, fmt.Errorf("creating order line %d: %w", i, err)
		}
		total = total.Add(decimal.NewFromFloat(line.Subtotal))
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET total_amount = ? WHERE id = ?`,
		total.InexactFloat64(), orderID,
	); err != nil {
		return nil, fmt.Errorf("updating order total: %w", err)
	}

	order, err := getOrderRow(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing order: %w", err)
	}

	return order, nil
}

func getOrderRow(ctx context.Context, db DBTX, id int64) (*model.Order, error) {
	order, err := scanOrder(db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}
	return &order, nil
}

// GetOrder returns an order with its lines.
func GetOrder(ctx context.Context, db DBTX, id int64) (*model.Order, error) {
	order, err := getOrderRow(ctx, db, id)
	if err != nil {
		return nil, err
	}

	orders := []model.Order{*order}
	if err := hydrateOrders(ctx, db, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// ListOrders returns one page of orders in insertion order, optionally
// restricted to a single status. Every order carries its lines.
func ListOrders(ctx context.Context, db DBTX, status *model.OrderStatus, page model.PageRequest) (*model.Page[model.Order], error) {
	where := ""
	var args []any
	if status != nil {
		where = ` WHERE status = ?`
		args = append(args, string(*status))
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting orders: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders`+where+` ORDER BY id LIMIT ? OFFSET ?`,
		append(args, page.PerPage, page.Offset())...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	rows.Close()

	if err := hydrateOrders(ctx, db, orders); err != nil {
		return nil, err
	}

	return model.NewPage(orders, total, page), nil
}

// hydrateOrders attaches order lines to orders with a single query.
func hydrateOrders(ctx context.Context, db DBTX, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	index := make(map[int64]int, len(orders))
	placeholders := make([]string, len(orders))
	args := make([]any, len(orders))
	for i, o := range orders {
		index[o.ID] = i
		placeholders[i] = "?"
		args[i] = o.ID
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+orderItemColumns+` FROM order_items
		 WHERE order_id IN (`+strings.Join(placeholders, ", ")+`)
		 ORDER BY order_id, id`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("listing order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		oi, err := scanOrderItem(rows)
		if err != nil {
			return fmt.Errorf("scanning order item: %w", err)
		}
		i := index[oi.OrderID]
		orders[i].OrderItems = append(orders[i].OrderItems, oi)
	}
	return rows.Err()
}

// UpdateOrderStatus sets an order's status. Transitions are not restricted.
func UpdateOrderStatus(ctx context.Context, db DBTX, id int64, status model.OrderStatus) error {
	result, err := db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("updating order %d: %w", id, err)
	}
	return nil
}
