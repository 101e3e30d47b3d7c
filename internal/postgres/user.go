package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dukerupert/forever/internal/domain"
	"github.com/jackc/pgx/v5"
)

// UserStore implements domain.UserStore using PostgreSQL.
// The cart lives in the users.cart_data JSONB column.
type UserStore struct {
	db DBTX
}

// Compile-time check to ensure UserStore implements domain.UserStore.
var _ domain.UserStore = (*UserStore)(nil)

// NewUserStore creates a new PostgreSQL-backed user store.
func NewUserStore(db DBTX) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id::text, name, email, password_hash, cart_data, cart_total, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u        domain.User
		cartJSON []byte
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &cartJSON, &u.CartTotal, &u.CreatedAt); err != nil {
		return nil, err
	}

	u.Cart = domain.Cart{}
	if len(cartJSON) > 0 {
		if err := json.Unmarshal(cartJSON, &u.Cart); err != nil {
			return nil, err
		}
	}
	return &u, nil
}

// CreateUser inserts u with an empty cart and sets its ID.
func (s *UserStore) CreateUser(ctx context.Context, u *domain.User) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id::text, created_at`,
		u.Name, u.Email, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return domain.Internal(err, "user.create", "failed to create user")
	}

	u.Cart = domain.Cart{}
	u.CartTotal = 0
	return nil
}

// GetUserByID returns the user with id.
func (s *UserStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrUserNotFound
	}
	return s.getUser(ctx, "user.get", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetUserByEmail returns the user registered with email (case-insensitive).
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, "user.get_by_email", `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (s *UserStore) getUser(ctx context.Context, op, query string, arg string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal(err, op, "failed to load user")
	}
	return u, nil
}

// SaveCart overwrites the user's cart and cached total.
func (s *UserStore) SaveCart(ctx context.Context, userID string, cart domain.Cart, total float64) error {
	if !validID(userID) {
		return domain.ErrUserNotFound
	}
	if cart == nil {
		cart = domain.Cart{}
	}

	data, err := json.Marshal(cart)
	if err != nil {
		return domain.Internal(err, "cart.save", "failed to encode cart")
	}

	tag, err := s.db.Exec(ctx, `UPDATE users SET cart_data = $2, cart_total = $3 WHERE id = $1`, userID, data, total)
	if err != nil {
		return domain.Internal(err, "cart.save", "failed to save cart")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
