package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrSelfDemotion       = errors.New("admins cannot remove their own admin role")
	ErrDuplicatePurchase  = errors.New("purchase already submitted")
)
