package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/cart-sync/internal/core/domain"
)

const mysqlDuplicateEntry = 1062

var schema = []string{
	`CREATE TABLE IF NOT EXISTS carts (
		username   VARCHAR(191) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL PRIMARY KEY,
		version    INT NOT NULL DEFAULT 0,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		username     VARCHAR(191) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
		product_id   BIGINT NOT NULL,
		product_name VARCHAR(255) NOT NULL,
		price        DECIMAL(18,2) NOT NULL,
		color        VARCHAR(64) NOT NULL,
		quantity     INT NOT NULL,
		PRIMARY KEY (username, product_id),
		CONSTRAINT fk_cart_items_cart FOREIGN KEY (username) REFERENCES carts (username),
		CONSTRAINT chk_cart_items_quantity CHECK (quantity >= 1)
	)`,
}

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// MySQLDSN forces parseTime on a configured DSN; cart timestamps are scanned
// into time.Time.
func MySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func (m *MySQLAdapter) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (m *MySQLAdapter) GetCart(ctx context.Context, username string) (domain.Cart, error) {
	var cart domain.Cart
	err := m.db.QueryRowContext(ctx, `
		SELECT username, version, created_at, updated_at
		FROM carts WHERE username = ?`, username,
	).Scan(&cart.Username, &cart.Version, &cart.CreatedAt, &cart.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("query cart: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT product_id, product_name, price, color, quantity
		FROM cart_items WHERE username = ?
		ORDER BY product_id`, username)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Price, &it.Color, &it.Quantity); err != nil {
			return domain.Cart{}, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, it)
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("iterate cart items: %w", err)
	}

	cart.Track()
	return cart, nil
}

func (m *MySQLAdapter) CreateCart(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO carts (username, version, created_at, updated_at)
		VALUES (?, 0, ?, ?)`,
		cart.Username, cart.CreatedAt, cart.UpdatedAt,
	)
	if isDuplicate(err) {
		return domain.Cart{}, domain.ErrCartExists
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("insert cart: %w", err)
	}

	cart.Items = []domain.CartItem{}
	cart.Version = 0
	cart.Track()
	return cart, nil
}

// Commit bumps each cart's version with a compare-and-swap and applies its
// item changes inside one transaction. Any stale version or lost race on a
// row rolls the whole transaction back with domain.ErrConflict.
func (m *MySQLAdapter) Commit(ctx context.Context, sets []domain.CartChangeSet) (int, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	written := 0

	for _, set := range sets {
		result, err := tx.ExecContext(ctx, `
			UPDATE carts
			SET version = version + 1, updated_at = ?
			WHERE username = ? AND version = ?`,
			now, set.Username, set.ExpectedVersion,
		)
		if err != nil {
			return 0, fmt.Errorf("update cart version: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return 0, fmt.Errorf("cart %q version %d: %w", set.Username, set.ExpectedVersion, domain.ErrConflict)
		}

		for _, ch := range set.Changes {
			n, err := execChange(ctx, tx, set.Username, ch)
			if err != nil {
				return 0, err
			}
			written += n
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return written, nil
}

func execChange(ctx context.Context, tx *sql.Tx, username string, ch domain.ItemChange) (int, error) {
	var (
		result sql.Result
		err    error
	)
	it := ch.Item

	switch ch.Kind {
	case domain.ChangeInsert:
		result, err = tx.ExecContext(ctx, `
			INSERT INTO cart_items (username, product_id, product_name, price, color, quantity)
			VALUES (?, ?, ?, ?, ?, ?)`,
			username, it.ProductID, it.ProductName, it.Price, it.Color, it.Quantity,
		)
		if isDuplicate(err) {
			return 0, fmt.Errorf("insert product %d: %w", it.ProductID, domain.ErrConflict)
		}
	case domain.ChangeUpdate:
		result, err = tx.ExecContext(ctx, `
			UPDATE cart_items
			SET product_name = ?, price = ?, color = ?, quantity = ?
			WHERE username = ? AND product_id = ?`,
			it.ProductName, it.Price, it.Color, it.Quantity, username, it.ProductID,
		)
	case domain.ChangeDelete:
		result, err = tx.ExecContext(ctx, `
			DELETE FROM cart_items WHERE username = ? AND product_id = ?`,
			username, it.ProductID,
		)
	default:
		return 0, fmt.Errorf("unknown change kind %d", ch.Kind)
	}
	if err != nil {
		return 0, fmt.Errorf("%s cart item: %w", ch.Kind, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return 0, fmt.Errorf("%s product %d: %w", ch.Kind, it.ProductID, domain.ErrConflict)
	}
	return int(rows), nil
}

func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
