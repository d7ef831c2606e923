package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/rl1809/cart-sync/internal/core/domain"
)

const productColumns = `id, name, description, price::text, status, created_at`

const productsSchema = `
CREATE TABLE IF NOT EXISTS products (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       NUMERIC(12,2) NOT NULL,
	status      TEXT NOT NULL DEFAULT 'INSTOCK',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// syncProductSequence moves the id sequence past explicitly seeded ids.
const syncProductSequence = `
SELECT setval(pg_get_serial_sequence('products', 'id'), COALESCE((SELECT MAX(id) FROM products), 0) + 1, false)`

const insertProduct = `
INSERT INTO products (name, description, price, status, created_at)
VALUES ($1, $2, $3::numeric, $4, $5)
RETURNING id`

// PostgresProductRepository stores the catalog's products table. Listing
// walks the result set row by row so the catalog is never held in memory.
type PostgresProductRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProductRepository(pool *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

func (r *PostgresProductRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, productsSchema); err != nil {
		return fmt.Errorf("migrate products: %w", err)
	}
	return nil
}

// Seed inserts products that are not present yet, leaving existing rows untouched.
func (r *PostgresProductRepository) Seed(ctx context.Context, products []domain.Product) error {
	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(
			`INSERT INTO products (id, name, description, price, status, created_at)
			 VALUES ($1, $2, $3, $4::numeric, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.Description, p.Price.String(), string(p.Status), p.CreatedAt,
		)
	}
	batch.Queue(syncProductSequence)
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	return nil
}

func (r *PostgresProductRepository) EachProduct(ctx context.Context, fn func(domain.Product) error) error {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate products: %w", err)
	}
	return nil
}

func (r *PostgresProductRepository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) AddProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	err := r.pool.QueryRow(ctx, insertProduct,
		p.Name, p.Description, p.Price.String(), string(p.Status), p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

// InsertProducts writes the whole set in one transaction; a failing row
// rolls back the rest.
func (r *PostgresProductRepository) InsertProducts(ctx context.Context, products []domain.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	inserted := 0
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, p := range products {
			batch.Queue(insertProduct, p.Name, p.Description, p.Price.String(), string(p.Status), p.CreatedAt)
		}

		results := tx.SendBatch(ctx, batch)
		for range products {
			var id int64
			if err := results.QueryRow().Scan(&id); err != nil {
				results.Close()
				return err
			}
			inserted++
		}
		return results.Close()
	})
	if err != nil {
		return 0, fmt.Errorf("insert products: %w", err)
	}
	return inserted, nil
}

func (r *PostgresProductRepository) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET name = $2, description = $3, price = $4::numeric, status = $5 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Price.String(), string(p.Status),
	)
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product %d: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return r.GetProduct(ctx, p.ID)
}

func (r *PostgresProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p      domain.Product
		price  string
		status string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &status, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, err
		}
		return domain.Product{}, fmt.Errorf("scan product: %w", err)
	}

	amount, err := decimal.NewFromString(price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d price: %w", p.ID, err)
	}
	p.Price = amount
	p.Status = domain.ProductStatus(status)
	return p, nil
}
