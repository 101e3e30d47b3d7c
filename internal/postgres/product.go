package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dukerupert/forever/internal/domain"
	"github.com/jackc/pgx/v5"
)

// ProductStore implements domain.ProductStore using PostgreSQL.
type ProductStore struct {
	db DBTX
}

// Compile-time check that ProductStore implements domain.ProductStore.
var _ domain.ProductStore = (*ProductStore)(nil)

// NewProductStore creates a new PostgreSQL-backed product store.
func NewProductStore(db DBTX) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id::text, name, description, price, images, category, sub_category, sizes, bestseller, stock, date`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Images,
		&p.Category, &p.SubCategory, &p.Sizes, &p.Bestseller, &p.Stock, &p.Date,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct inserts p and sets its ID.
func (s *ProductStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO products (name, description, price, images, category, sub_category, sizes, bestseller, stock, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id::text`,
		p.Name, p.Description, p.Price, nonNil(p.Images), p.Category, p.SubCategory,
		nonNil(p.Sizes), p.Bestseller, p.Stock, p.Date,
	).Scan(&p.ID)
	if err != nil {
		return domain.Internal(err, "product.create", "failed to save product")
	}
	return nil
}

// GetProduct returns the product with id.
func (s *ProductStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if !validID(id) {
		return nil, domain.ErrProductNotFound
	}

	p, err := scanProduct(s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "product.get", "failed to load product")
	}
	return p, nil
}

// ListProducts returns one page of products and the total number of matches.
func (s *ProductStore) ListProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int64, error) {
	where, args := buildProductWhere(q.Filter)

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, domain.Internal(err, "product.list", "failed to count products")
	}

	order, err := orderBy(q.Sort)
	if err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, where, order, n+1, n+2)
	rows, err := s.db.Query(ctx, query, append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, 0, domain.Internal(err, "product.list", "failed to list products")
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, domain.Internal(err, "product.list", "failed to read product")
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.Internal(err, "product.list", "failed to list products")
	}

	return products, total, nil
}

// UpdateProduct applies the present fields of u and returns the result.
func (s *ProductStore) UpdateProduct(ctx context.Context, id string, u domain.ProductUpdate) (*domain.Product, error) {
	if !validID(id) {
		return nil, domain.ErrProductNotFound
	}

	p, err := scanProduct(s.db.QueryRow(ctx, `
		UPDATE products SET
			name         = COALESCE($2, name),
			description  = COALESCE($3, description),
			price        = COALESCE($4, price),
			category     = COALESCE($5, category),
			sub_category = COALESCE($6, sub_category),
			sizes        = COALESCE($7, sizes),
			bestseller   = COALESCE($8, bestseller),
			stock        = COALESCE($9, stock),
			images       = COALESCE($10, images)
		WHERE id = $1
		RETURNING `+productColumns,
		id, u.Name, u.Description, u.Price, u.Category, u.SubCategory,
		listArg(u.Sizes), u.Bestseller, u.Stock, listArg(u.Images),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "product.update", "failed to update product")
	}
	return p, nil
}

// DeleteProduct removes the product with id.
func (s *ProductStore) DeleteProduct(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrProductNotFound
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return domain.Internal(err, "product.delete", "failed to delete product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// buildProductWhere renders the filter as a WHERE clause with positional args.
func buildProductWhere(f domain.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.SubCategory != "" {
		add("sub_category = $%d", f.SubCategory)
	}
	if f.Bestseller != nil {
		add("bestseller = $%d", *f.Bestseller)
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var sortColumns = map[string]string{
	domain.SortByDate:  "date",
	domain.SortByPrice: "price",
	domain.SortByName:  "name",
}

func orderBy(s domain.ProductSort) (string, error) {
	col, ok := sortColumns[s.Field]
	if !ok {
		return "", domain.Invalid("product.list", "Invalid sort parameter")
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return col + " " + dir + ", id ASC", nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// listArg turns an optional list into a query argument; nil becomes NULL.
func listArg(s *[]string) any {
	if s == nil {
		return nil
	}
	return nonNil(*s)
}
