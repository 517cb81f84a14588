package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/retailapi/internal/model"
)

const itemColumns = `id, title, description, barcode, price, is_active, created_at, updated_at`

// scanItem maps one items row onto a model.Item.
func scanItem(row rowScanner) (model.Item, error) {
	var item model.Item
	var description sql.NullString
	err := row.Scan(&item.ID, &item.Title, &description, &item.Barcode, &item.Price,
		&item.IsActive, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return model.Item{}, err
	}
	if description.Valid {
		item.Description = &description.String
	}
	return item, nil
}

// CreateItem inserts an item and returns the stored row.
func CreateItem(ctx context.Context, db DBTX, in model.ItemInput) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (title, description, barcode, price, is_active) VALUES (?, ?, ?, ?, ?)`,
		in.Title, in.Description, in.Barcode, in.Price, in.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db DBTX, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return &item, nil
}

// ListItems returns one page of items with the given active flag, in
// insertion order.
func ListItems(ctx context.Context, db DBTX, isActive bool, page model.PageRequest) (*model.Page[model.Item], error) {
	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE is_active = ?`, isActive,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE is_active = ? ORDER BY id LIMIT ? OFFSET ?`,
		isActive, page.PerPage, page.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	return model.NewPage(items, total, page), nil
}

// UpdateItem replaces every mutable field of an item and returns the stored
// row.
func UpdateItem(ctx context.Context, db DBTX, id int64, in model.ItemInput) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items
		 SET title = ?, description = ?, barcode = ?, price = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		in.Title, in.Description, in.Barcode, in.Price, in.IsActive, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return nil, fmt.Errorf("updating item %d: %w", id, err)
	}

	return GetItem(ctx, db, id)
}

// DeleteItem removes an item.
func DeleteItem(ctx context.Context, db DBTX, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("deleting item %d: %w", id, err)
	}
	return nil
}
