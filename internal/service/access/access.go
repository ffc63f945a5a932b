// Package access gates mutation entry points by role and ownership.
// Violations are ErrForbidden; a missing authenticated user entirely is
// ErrUnauthorized and raised earlier, at the transport middleware.
package access

import (
	"github.com/readora/market-service/internal/errs"
	"github.com/readora/market-service/internal/model"
)

// Actor is the authenticated caller as seen by the policy checks.
type Actor struct {
	ID       int
	IsAuthor bool
}

func CanCreateBook(a Actor) error {
	if !a.IsAuthor {
		return errs.ErrForbidden
	}
	return nil
}

func CanMutateBook(a Actor, book model.Book) error {
	if book.AuthorID != a.ID {
		return errs.ErrForbidden
	}
	return nil
}

func CanAccessAuthorDashboard(a Actor) error {
	if !a.IsAuthor {
		return errs.ErrForbidden
	}
	return nil
}
