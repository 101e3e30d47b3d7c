package domain

import (
	"context"
	"time"
)

// Roles carried in access tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a storefront account. Cart and CartTotal are written only by the
// cart service.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Cart         Cart      `json:"cartData"`
	CartTotal    float64   `json:"cartTotal"`
	CreatedAt    time.Time `json:"createdAt"`
}

var (
	// ErrUserNotFound is returned by stores when no user matches.
	ErrUserNotFound = &Error{Code: ENOTFOUND, Message: "User not found", Operational: true}

	// ErrUserExists is returned by CreateUser for a duplicate email.
	ErrUserExists = &Error{Code: ECONFLICT, Message: "User already exists", Operational: true}
)

// UserStore persists accounts and their carts.
type UserStore interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// SaveCart replaces the user's cart and cached total in one write.
	SaveCart(ctx context.Context, userID string, cart Cart, total float64) error
}
