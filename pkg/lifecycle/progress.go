package lifecycle

import (
	"fmt"
	"time"
)

// ProgressState tracks one visitor's submission attempt.
type ProgressState string

const (
	ProgressNotStarted ProgressState = "not-started"
	ProgressInProgress ProgressState = "in-progress"
	ProgressCompleted  ProgressState = "completed"
)

// Attempt is one visitor's submission in flight, keyed by an opaque progress
// tag so partial entries survive a page reload. Values are whole-map
// replacements: two tabs saving under the same tag clobber each other,
// last write wins.
type Attempt struct {
	ID          string            `json:"id"`
	FormID      string            `json:"formId"`
	ProgressTag string            `json:"progressTag,omitempty"`
	Values      map[string]string `json:"values"`
	// ContentSnapshot freezes the serialized document the values were entered
	// against, so review views survive later content replacement.
	ContentSnapshot string        `json:"contentSnapshot"`
	State           ProgressState `json:"state"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// NewAttempt starts a NotStarted attempt for the given form and visitor tag.
func NewAttempt(id, formID, progressTag, contentSnapshot string) *Attempt {
	now := time.Now().UTC()
	return &Attempt{
		ID:              id,
		FormID:          formID,
		ProgressTag:     progressTag,
		ContentSnapshot: contentSnapshot,
		State:           ProgressNotStarted,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// SaveProgress stores a partial value set, replacing any prior values for the
// attempt. Repeated saves are allowed; a completed attempt refuses with
// ErrAlreadySubmitted.
func (a *Attempt) SaveProgress(values map[string]string) error {
	if a.State == ProgressCompleted {
		return fmt.Errorf("lifecycle: %w", ErrAlreadySubmitted)
	}
	a.Values = cloneValues(values)
	a.State = ProgressInProgress
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete stores the final value set and moves the attempt to its terminal
// state. Further saves or completes fail with ErrAlreadySubmitted.
func (a *Attempt) Complete(values map[string]string) error {
	if a.State == ProgressCompleted {
		return fmt.Errorf("lifecycle: %w", ErrAlreadySubmitted)
	}
	a.Values = cloneValues(values)
	a.State = ProgressCompleted
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
