package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/soapshop/internal/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const productColumns = `id::text, name, description, long_description, price::text, category, stock, image, ingredients, created_at, updated_at`

const (
	findAllQuery = `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id`

	findByIDQuery = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	createQuery = `INSERT INTO products (name, description, long_description, price, category, stock, image, ingredients)
VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8)
RETURNING ` + productColumns

	updateQuery = `UPDATE products SET
	name = $2,
	description = $3,
	long_description = $4,
	price = $5::numeric,
	category = $6,
	stock = $7,
	image = COALESCE(NULLIF($8, ''), image),
	ingredients = $9,
	updated_at = now()
WHERE id = $1
RETURNING ` + productColumns

	deleteQuery = `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx, findAllQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}
	return products, nil
}

func (p *PgStore) FindByID(ctx context.Context, id string) (*Product, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return p.one(ctx, "find product by ID", findByIDQuery, uid)
}

func (p *PgStore) Create(ctx context.Context, in ProductInput) (*Product, error) {
	return p.one(ctx, "create product", createQuery,
		in.Name, in.Description, in.LongDescription, in.Price.String(), in.Category, in.Stock, in.Image, ingredients(in.Ingredients))
}

func (p *PgStore) Update(ctx context.Context, id string, in ProductInput) (*Product, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return p.one(ctx, "update product", updateQuery,
		uid, in.Name, in.Description, in.LongDescription, in.Price.String(), in.Category, in.Stock, in.Image, ingredients(in.Ingredients))
}

func (p *PgStore) Delete(ctx context.Context, id string) (*Product, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return p.one(ctx, "delete product", deleteQuery, uid)
}

func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// one runs a query returning a single product row.
// Returns ErrProductNotFound if no row matched.
func (p *PgStore) one(ctx context.Context, op, query string, args ...any) (*Product, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	product, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return &product, nil
}

func scanProduct(row pgx.CollectableRow) (Product, error) {
	var (
		p     Product
		price string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.LongDescription, &price, &p.Category, &p.Stock,
		&p.Image, &p.Ingredients, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return Product{}, fmt.Errorf("invalid stored price %q: %w", price, err)
	}
	return p, nil
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", perrors.ErrInvalidProductID, id)
	}
	return uid, nil
}

// ingredients avoids writing NULL into the NOT NULL array column.
func ingredients(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
