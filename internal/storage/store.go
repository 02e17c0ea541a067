// Package storage persists forms and submission attempts. Two
// implementations ship: an in-memory store for tests and demos, and a SQLite
// store for real deployments.
package storage

import (
	"context"
	"errors"

	"github.com/goliatone/go-formbuilder/pkg/lifecycle"
)

var (
	// ErrNotFound is returned for any lookup that matches nothing: unknown
	// form ids, unknown share ids, and unknown progress tags all collapse
	// into this one category so handlers cannot leak which part missed.
	ErrNotFound = errors.New("storage: not found")
	// ErrDuplicateID rejects creating a form whose id already exists.
	ErrDuplicateID = errors.New("storage: duplicate id")
)

// Store is the persistence boundary for forms and attempts.
//
// VisitByShareID increments the visit counter atomically with the lookup, so
// concurrent visitors never lose counts. SaveAttempt upserts by (form id,
// progress tag) and bumps the form's submission counter exactly once, when
// the attempt first reaches its completed state.
type Store interface {
	CreateForm(ctx context.Context, form *lifecycle.Form) error
	GetForm(ctx context.Context, id string) (*lifecycle.Form, error)
	ListForms(ctx context.Context, ownerID string) ([]*lifecycle.Form, error)
	UpdateForm(ctx context.Context, form *lifecycle.Form) error
	GetFormByShareID(ctx context.Context, shareID string) (*lifecycle.Form, error)
	VisitByShareID(ctx context.Context, shareID string) (*lifecycle.Form, error)

	SaveAttempt(ctx context.Context, attempt *lifecycle.Attempt) error
	GetAttempt(ctx context.Context, formID, progressTag string) (*lifecycle.Attempt, error)
	ListAttempts(ctx context.Context, formID string) ([]*lifecycle.Attempt, error)

	Close() error
}
