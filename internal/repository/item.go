package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stashkeep/stashkeep/internal/model"
)

// ErrItemNotFound is returned when no item matches the given ID.
var ErrItemNotFound = errors.New("item not found")

// CreateItem inserts a new item into the database.
func (r *Repository) CreateItem(ctx context.Context, item *model.Item) error {
	query := `
		INSERT INTO items (id, name, amount, product, image, date, time, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Amount,
		item.Product,
		item.Image,
		item.Date,
		item.Time,
		item.OwnerID,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetItemByID retrieves an item by its ID regardless of owner.
// Ownership decisions happen at the service layer, which needs the stored
// owner to distinguish "not found" from "forbidden".
func (r *Repository) GetItemByID(ctx context.Context, id string) (*model.Item, error) {
	query := `
		SELECT id, name, amount, product, image, date, time, owner_id, created_at, updated_at
		FROM items
		WHERE id = $1
	`

	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item by ID: %w", err)
	}

	return item, nil
}

// ListItemsByOwner retrieves all items belonging to the given owner,
// newest first.
func (r *Repository) ListItemsByOwner(ctx context.Context, ownerID string) ([]*model.Item, error) {
	query := `
		SELECT id, name, amount, product, image, date, time, owner_id, created_at, updated_at
		FROM items
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := make([]*model.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// UpdateItem persists changes to an existing item. The owner column is
// deliberately not part of the SET list: ownership is immutable.
func (r *Repository) UpdateItem(ctx context.Context, item *model.Item) error {
	query := `
		UPDATE items
		SET name = $2, amount = $3, product = $4, image = $5, date = $6, time = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Amount,
		item.Product,
		item.Image,
		item.Date,
		item.Time,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

// DeleteItem removes an item by ID.
func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

// rowScanner abstracts pgx.Row and pgx.Rows for scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	var item model.Item
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Amount,
		&item.Product,
		&item.Image,
		&item.Date,
		&item.Time,
		&item.OwnerID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return &item, err
}
