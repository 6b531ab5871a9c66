package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"product-catalog/internal/catalog"
)

const healthCheckTimeout = 2 * time.Second

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (catalog.Product, error) {
	query := `
		SELECT id, name, description, price
		FROM products
		WHERE id = $1
	`

	var p catalog.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Product{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.Product{}, fmt.Errorf("select product %d: %w", id, err)
	}
	return p, nil
}

// Upsert persists the product and returns the stored form. A zero ID
// means the store assigns one; a non-zero ID replaces the existing row
// in a single statement, so the write is atomic per key.
func (r *PostgresRepository) Upsert(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if p.ID == 0 {
		query := `
			INSERT INTO products (name, description, price)
			VALUES ($1, $2, $3)
			RETURNING id, name, description, price
		`
		var out catalog.Product
		err := r.db.QueryRowContext(ctx, query, p.Name, p.Description, p.Price).
			Scan(&out.ID, &out.Name, &out.Description, &out.Price)
		if err != nil {
			return catalog.Product{}, fmt.Errorf("insert product: %w", err)
		}
		return out, nil
	}

	query := `
		INSERT INTO products (id, name, description, price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description, price = EXCLUDED.price
		RETURNING id, name, description, price
	`
	var out catalog.Product
	err := r.db.QueryRowContext(ctx, query, p.ID, p.Name, p.Description, p.Price).
		Scan(&out.ID, &out.Name, &out.Description, &out.Price)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("upsert product %d: %w", p.ID, err)
	}
	return out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete product %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check product %d: %w", id, err)
	}
	return exists, nil
}

// Scan pages through products in the requested order. Ties on the sort
// column fall back to id ascending, so repeated scans over an unchanged
// table return identical sequences.
func (r *PostgresRepository) Scan(ctx context.Context, pageIndex, pageSize int, sortField, sortDirection string) ([]catalog.Product, int64, error) {
	column, err := sortColumn(sortField)
	if err != nil {
		return nil, 0, err
	}
	direction := "ASC"
	if sortDirection == catalog.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, price
		FROM products
		ORDER BY %s %s, id ASC
		LIMIT $1 OFFSET $2
	`, column, direction)

	rows, err := r.db.QueryContext(ctx, query, pageSize, pageIndex*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	list := make([]catalog.Product, 0)
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	return list, total, nil
}

func sortColumn(sortField string) (string, error) {
	switch sortField {
	case catalog.SortByID:
		return "id", nil
	case catalog.SortByName:
		return "name", nil
	case catalog.SortByPrice:
		return "price", nil
	default:
		return "", catalog.ErrInvalidSortField
	}
}

func (r *PostgresRepository) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()
	return r.db.PingContext(ctx)
}
