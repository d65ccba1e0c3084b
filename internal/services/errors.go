package services

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductInactive    = errors.New("product is not available")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrDuplicateVariant   = errors.New("duplicate variant")
)
