// Package lifecycle models the publication state machine of a form and the
// progress of individual submission attempts.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyPublished rejects builder-path content edits on a published
	// form; published content changes only through ReplacePublishedContent.
	ErrAlreadyPublished = errors.New("form already published")
	// ErrNotPublished rejects operations that require a public form.
	ErrNotPublished = errors.New("form not published")
	// ErrEmptyContent rejects publishing a form without serialized content.
	ErrEmptyContent = errors.New("form content is empty")
	// ErrAlreadySubmitted rejects saves or submits on a completed attempt.
	ErrAlreadySubmitted = errors.New("submission already completed")
)

// Form is the persisted record a document lives inside. Content holds the
// serialized form document; counters are owned by the storage collaborator
// and mirrored here read-only.
type Form struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Published   bool      `json:"published"`
	ShareID     string    `json:"shareId,omitempty"`
	Visits      int       `json:"visits"`
	Submissions int       `json:"submissions"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpdateContent replaces the draft's serialized document. This is the builder
// path: once the form is published it refuses, keeping published structure
// frozen against accidental edits.
func (f *Form) UpdateContent(serialized string) error {
	if f.Published {
		return fmt.Errorf("lifecycle: %w", ErrAlreadyPublished)
	}
	f.Content = serialized
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// Publish transitions Draft -> Published. The share identifier is generated
// exactly once and stays stable across repeated calls; there is no reverse
// transition.
func (f *Form) Publish() error {
	if f.Content == "" {
		return fmt.Errorf("lifecycle: %w", ErrEmptyContent)
	}
	if f.ShareID == "" {
		f.ShareID = uuid.NewString()
	}
	f.Published = true
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// ReplacePublishedContent updates the content of a published form. It is a
// deliberate, separate operation from the builder's UpdateContent so frozen
// forms cannot change through the editing path by accident.
func (f *Form) ReplacePublishedContent(serialized string) error {
	if !f.Published {
		return fmt.Errorf("lifecycle: %w", ErrNotPublished)
	}
	if serialized == "" {
		return fmt.Errorf("lifecycle: %w", ErrEmptyContent)
	}
	f.Content = serialized
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// Stats derives the visit/submission ratios for this form.
func (f Form) Stats() Stats {
	return ComputeStats(f.Visits, f.Submissions)
}
