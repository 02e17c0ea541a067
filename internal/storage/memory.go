package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/lifecycle"
)

// MemoryStore implements Store using in-memory maps.
// Intended for demos and testing, no database required.
type MemoryStore struct {
	mu       sync.RWMutex
	forms    map[string]*lifecycle.Form
	attempts map[string]*lifecycle.Attempt
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		forms:    make(map[string]*lifecycle.Form),
		attempts: make(map[string]*lifecycle.Attempt),
	}
}

func (s *MemoryStore) CreateForm(ctx context.Context, form *lifecycle.Form) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	if _, exists := s.forms[form.ID]; exists {
		return fmt.Errorf("%w: form %q", ErrDuplicateID, form.ID)
	}
	s.forms[form.ID] = cloneForm(form)
	return nil
}

func (s *MemoryStore) GetForm(ctx context.Context, id string) (*lifecycle.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	form, ok := s.forms[id]
	if !ok {
		return nil, fmt.Errorf("%w: form %q", ErrNotFound, id)
	}
	return cloneForm(form), nil
}

func (s *MemoryStore) ListForms(ctx context.Context, ownerID string) ([]*lifecycle.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var forms []*lifecycle.Form
	for _, form := range s.forms {
		if ownerID != "" && form.OwnerID != ownerID {
			continue
		}
		forms = append(forms, cloneForm(form))
	}
	sort.Slice(forms, func(i, j int) bool {
		if forms[i].CreatedAt.Equal(forms[j].CreatedAt) {
			return forms[i].ID < forms[j].ID
		}
		return forms[i].CreatedAt.After(forms[j].CreatedAt)
	})
	return forms, nil
}

func (s *MemoryStore) UpdateForm(ctx context.Context, form *lifecycle.Form) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.forms[form.ID]
	if !ok {
		return fmt.Errorf("%w: form %q", ErrNotFound, form.ID)
	}

	// counters are store-owned; keep them over whatever the caller carries
	updated := cloneForm(form)
	updated.Visits = stored.Visits
	updated.Submissions = stored.Submissions
	s.forms[form.ID] = updated
	return nil
}

func (s *MemoryStore) GetFormByShareID(ctx context.Context, shareID string) (*lifecycle.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, form := range s.forms {
		if form.Published && form.ShareID == shareID {
			return cloneForm(form), nil
		}
	}
	return nil, fmt.Errorf("%w: share id %q", ErrNotFound, shareID)
}

func (s *MemoryStore) VisitByShareID(ctx context.Context, shareID string) (*lifecycle.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, form := range s.forms {
		if form.Published && form.ShareID == shareID {
			form.Visits++
			return cloneForm(form), nil
		}
	}
	return nil, fmt.Errorf("%w: share id %q", ErrNotFound, shareID)
}

func (s *MemoryStore) SaveAttempt(ctx context.Context, attempt *lifecycle.Attempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.forms[attempt.FormID]; !ok {
		return fmt.Errorf("%w: form %q", ErrNotFound, attempt.FormID)
	}

	var prior *lifecycle.Attempt
	if attempt.ProgressTag != "" {
		for _, existing := range s.attempts {
			if existing.FormID == attempt.FormID && existing.ProgressTag == attempt.ProgressTag {
				prior = existing
				break
			}
		}
	}
	if prior == nil && attempt.ID != "" {
		prior = s.attempts[attempt.ID]
	}

	if attempt.ID == "" {
		if prior != nil {
			attempt.ID = prior.ID
		} else {
			attempt.ID = uuid.NewString()
		}
	}

	wasCompleted := prior != nil && prior.State == lifecycle.ProgressCompleted
	if attempt.State == lifecycle.ProgressCompleted && !wasCompleted {
		s.forms[attempt.FormID].Submissions++
	}

	s.attempts[attempt.ID] = cloneAttempt(attempt)
	return nil
}

func (s *MemoryStore) GetAttempt(ctx context.Context, formID, progressTag string) (*lifecycle.Attempt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if progressTag != "" {
		for _, attempt := range s.attempts {
			if attempt.FormID == formID && attempt.ProgressTag == progressTag {
				return cloneAttempt(attempt), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: attempt for form %q tag %q", ErrNotFound, formID, progressTag)
}

func (s *MemoryStore) ListAttempts(ctx context.Context, formID string) ([]*lifecycle.Attempt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var attempts []*lifecycle.Attempt
	for _, attempt := range s.attempts {
		if attempt.FormID == formID {
			attempts = append(attempts, cloneAttempt(attempt))
		}
	}
	sort.Slice(attempts, func(i, j int) bool {
		if attempts[i].CreatedAt.Equal(attempts[j].CreatedAt) {
			return attempts[i].ID < attempts[j].ID
		}
		return attempts[i].CreatedAt.Before(attempts[j].CreatedAt)
	})
	return attempts, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func cloneForm(form *lifecycle.Form) *lifecycle.Form {
	clone := *form
	return &clone
}

func cloneAttempt(attempt *lifecycle.Attempt) *lifecycle.Attempt {
	clone := *attempt
	clone.Values = make(map[string]string, len(attempt.Values))
	for key, value := range attempt.Values {
		clone.Values[key] = value
	}
	return &clone
}
