package service

import (
	"github.com/dukerupert/forever/internal/domain"
)

// Cart errors - use domain.EINVALID
var (
	ErrSizeNotAvailable  = domain.Errorf(domain.EINVALID, "cart.add", "Selected size is not available")
	ErrMissingCartFields = domain.Errorf(domain.EINVALID, "cart.update", "Missing required fields")
	ErrNegativeQuantity  = domain.Errorf(domain.EINVALID, "cart.update", "Quantity cannot be negative")
	ErrInvalidSize       = domain.Errorf(domain.EINVALID, "cart.update", "Invalid size selected")
)

// Product errors
var (
	ErrImageRequired = domain.Errorf(domain.EINVALID, "product.create", "At least one image is required")
)

// Auth errors - use domain.EUNAUTHORIZED
var (
	ErrTokenMissing       = domain.Errorf(domain.EUNAUTHORIZED, "auth", "Not Authorized - Please login again")
	ErrTokenInvalid       = domain.Errorf(domain.EUNAUTHORIZED, "auth", "Invalid token - Please login again")
	ErrTokenExpired       = domain.Errorf(domain.EUNAUTHORIZED, "auth", "Token expired - Please login again")
	ErrInvalidCredentials = domain.Errorf(domain.EUNAUTHORIZED, "user.login", "Invalid credentials")
	ErrAdminRequired      = domain.Errorf(domain.EFORBIDDEN, "auth", "Admin access required")
)
