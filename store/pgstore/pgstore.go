// Package pgstore persists the catalog, accounts and orders in PostgreSQL.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"storefront/auth"
	"storefront/catalog"
	"storefront/models"
)

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Products() *Products { return &Products{pool: s.pool} }
func (s *Store) Users() *Users       { return &Users{pool: s.pool} }
func (s *Store) Orders() *Orders     { return &Orders{pool: s.pool} }

// findWhere builds the listing filter. Gender is an exact match; the
// category is a literal ILIKE substring of title or any category.
func findWhere(q catalog.Query) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if q.Gender != "" {
		args = append(args, q.Gender)
		conds = append(conds, fmt.Sprintf("gender = $%d", len(args)))
	}
	if q.Category != "" {
		args = append(args, q.CategoryLike())
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(title ILIKE $%d ESCAPE '\' OR EXISTS (SELECT 1 FROM unnest(categories) c WHERE c ILIKE $%d ESCAPE '\'))`, n, n))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

const orderNewestFirst = " ORDER BY created_at DESC, seq DESC"

type Products struct {
	pool *pgxpool.Pool
}

func (r *Products) Find(ctx context.Context, q catalog.Query) ([]models.Product, int64, error) {
	where, args := findWhere(q)

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	sql := fmt.Sprintf("SELECT id::text, doc FROM products%s%s OFFSET $%d LIMIT $%d", where, orderNewestFirst, n+1, n+2)
	products, err := r.query(ctx, sql, append(args, q.Offset(), q.Limit())...)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *Products) FindAll(ctx context.Context) ([]models.Product, error) {
	return r.query(ctx, "SELECT id::text, doc FROM products"+orderNewestFirst)
}

func (r *Products) query(ctx context.Context, sql string, args ...interface{}) ([]models.Product, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Products) FindByID(ctx context.Context, id string) (models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Product{}, catalog.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, "SELECT id::text, doc FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if err != nil {
		return models.Product{}, notFound(err)
	}
	return p, nil
}

func (r *Products) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	p.ID = uuid.NewString()
	doc, err := json.Marshal(p)
	if err != nil {
		return models.Product{}, err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO products (id, title, gender, categories, created_at, doc) VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Title, string(p.Gender), categoriesOf(p), p.CreatedAt, doc)
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Update applies the patch under a row lock so concurrent edits of the
// same product do not lose fields.
func (r *Products) Update(ctx context.Context, id string, patch models.ProductPatch, updatedAt time.Time) (models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Product{}, catalog.ErrNotFound
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.Product{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := scanProduct(tx.QueryRow(ctx, "SELECT id::text, doc FROM products WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		return models.Product{}, notFound(err)
	}

	p.Apply(patch)
	p.UpdatedAt = updatedAt
	doc, err := json.Marshal(p)
	if err != nil {
		return models.Product{}, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE products SET title = $2, gender = $3, categories = $4, doc = $5 WHERE id = $1`,
		id, p.Title, string(p.Gender), categoriesOf(p), doc)
	if err != nil {
		return models.Product{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (r *Products) Delete(ctx context.Context, id string) (models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Product{}, catalog.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, "DELETE FROM products WHERE id = $1 RETURNING id::text, doc", id)
	p, err := scanProduct(row)
	if err != nil {
		return models.Product{}, notFound(err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var (
		id  string
		doc []byte
		p   models.Product
	)
	if err := row.Scan(&id, &doc); err != nil {
		return p, err
	}
	if err := json.Unmarshal(doc, &p); err != nil {
		return p, fmt.Errorf("decode product %s: %w", id, err)
	}
	p.ID = id
	return p, nil
}

func categoriesOf(p models.Product) []string {
	if p.Categories == nil {
		return []string{}
	}
	return p.Categories
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.ErrNotFound
	}
	return err
}

type Users struct {
	pool *pgxpool.Pool
}

const userColumns = "id::text, name, email, password, role, verified, coalesce(verify_token, ''), created_at"

func scanUser(row pgx.Row) (models.User, error) {
	var (
		u    models.User
		role string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &role, &u.Verified, &u.VerifyToken, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, auth.ErrUserNotFound
	}
	u.Role = models.Role(role)
	return u, err
}

func (r *Users) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
}

func (r *Users) FindByVerifyToken(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, auth.ErrUserNotFound
	}
	return scanUser(r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE verify_token = $1", token))
}

func (r *Users) Insert(ctx context.Context, u models.User) (models.User, error) {
	u.ID = uuid.NewString()
	var token interface{}
	if u.VerifyToken != "" {
		token = u.VerifyToken
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password, role, verified, verify_token, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Name, u.Email, u.Password, string(u.Role), u.Verified, token, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, auth.ErrConflict
		}
		return models.User{}, err
	}
	return u, nil
}

func (r *Users) MarkVerified(ctx context.Context, id, token string) error {
	if _, err := uuid.Parse(id); err != nil || token == "" {
		return auth.ErrUserNotFound
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET verified = true, verify_token = NULL
		 WHERE id = $1 AND verify_token = $2 AND NOT verified`, id, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

type Orders struct {
	pool *pgxpool.Pool
}

func (r *Orders) Insert(ctx context.Context, o models.Order) (models.Order, error) {
	o.ID = uuid.NewString()
	doc, err := json.Marshal(o)
	if err != nil {
		return models.Order{}, err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO orders (id, order_number, product_id, order_date, doc) VALUES ($1, $2, $3, $4, $5)`,
		o.ID, o.OrderNumber, o.ProductID, o.OrderDate, doc)
	if err != nil {
		return models.Order{}, err
	}
	return o, nil
}
