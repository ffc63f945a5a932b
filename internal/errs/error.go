package errs

import (
	"errors"
)

var (
	// ErrNotFound: the referenced user/book/cart item/order/review does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized: no authenticated user on an operation requiring one.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden: authenticated but lacking the required role or ownership.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput: malformed or out-of-range request data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyCart: checkout attempted with no cart items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidPurchase: rent requested on a book without a rent price.
	ErrInvalidPurchase = errors.New("book is not available for rent")
	// ErrExists: unique constraint violation (username/email already taken).
	ErrExists = errors.New("already exists")
)
