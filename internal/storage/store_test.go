package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/lifecycle"
)

// runStores runs fn against both implementations so behavior cannot drift.
func runStores(t *testing.T, fn func(t *testing.T, store Store)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) {
		store := NewMemoryStore()
		t.Cleanup(func() { store.Close() })
		fn(t, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := NewSQLiteStore(":memory:")
		if err != nil {
			t.Fatalf("NewSQLiteStore() error = %v", err)
		}
		t.Cleanup(func() { store.Close() })
		fn(t, store)
	})
}

func newForm(name string) *lifecycle.Form {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &lifecycle.Form{
		OwnerID:     "owner-1",
		Name:        name,
		Description: "test form",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func publish(t *testing.T, form *lifecycle.Form) {
	t.Helper()
	if err := form.UpdateContent(`[]`); err != nil {
		t.Fatalf("UpdateContent() error = %v", err)
	}
	if err := form.Publish(); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
}

func TestCreateAndGetForm(t *testing.T) {
	runStores(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		form := newForm("Survey")

		if err := store.CreateForm(ctx, form); err != nil {
			t.Fatalf("CreateForm() error = %v", err)
		}
		if form.ID == "" {
			t.Fatal("CreateForm() did not assign an id")
		}

		got, err := store.GetForm(ctx, form.ID)
		if err != nil {
			t.Fatalf("GetForm() error = %v", err)
		}
		if got.Name != "Survey" || got.OwnerID != "owner-1" {
			t.Errorf("GetForm() = %+v", got)
		}

		if err := store.CreateForm(ctx, &lifecycle.Form{ID: form.ID, Name: "dup"}); !errors.Is(err, ErrDuplicateID) {
			t.Errorf("CreateForm() duplicate error = %v, want ErrDuplicateID", err)
		}
	})
}

func TestGetFormNotFound(t *testing.T) {
	runStores(t, func(t *testing.T, store Store) {
		if _, err := store.GetForm(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("GetForm() error = %v, want ErrNotFound", err)
		}
	})
}

func TestListFormsByOwner(t *testing.T) {
	runStores(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		mine := newForm("Mine")
		if err := store.CreateForm(ctx, mine); err != nil {
			t.Fatalf("CreateForm() error = %v", err)
		}
		other := newForm("Theirs")
		other.OwnerID = "owner-2"
		if err := store.CreateForm(ctx, other); err != nil {
			t.Fatalf("CreateForm() error = %v", err)
		}

		forms, err := store.ListForms(ctx, "owner-1")
		if err != nil {
			t.Fatalf("ListForms() error = %v", err)
		}
		if len(forms) != 1 || forms[0].Name != "Mine" {
			t.Errorf("ListForms(owner-1) = %v", forms)
		}

		all, err := store.ListForms(ctx, "")
		if err != nil {
			t.Fatalf("ListForms() error = %v", err)
		}
		if len(all) != 2 {
			t.Errorf("ListForms(all) returned %d forms", len(all))
		}
	})
}

func TestUpdateFormPreservesCounters(t *testing.T) {
	runStores(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		form := newForm("Survey")
		publish(t, form)
		if err := store.CreateForm(ctx, form); err != nil {
			t.Fatalf("CreateForm() error = %v", err)
		}

		if _, err := store.VisitByShareID(ctx, form.ShareID); err != nil {
			t.Fatalf("VisitByShareID() error = %v", err)
		}

		// caller-side counter values must not overwrite store-owned ones
		form.Visits = 999
		form.Name = "Renamed"
		if err := store.UpdateForm(ctx, form); err != nil {
			t.Fatalf("UpdateForm() error = %v", err)
		}

		got, err := store.GetForm(ctx, form.ID)
		if err != nil {
			t.Fatalf("GetForm() error = %v", err)
		}
		if got.Name != "Renamed" {
			t.Errorf("Name = %q, want Renamed", got.Name)
		}
		if got.Visits != 1 {
			t.Errorf("Visits = %d, want 1", got.Visits)
		}
	})
}

func TestVisitByShareID(t *testing.T) {
	runStores(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		form := newForm("Survey")
		publish(t, form)
		if err := store.CreateForm(ctx, form); err != nil {
			t.Fatalf("CreateForm() error = %v", err)
		}

		for i := 1; i <= 3; i++ {
			got, err := store.VisitByShareID(ctx, form.ShareID)
			if err != nil {
				t.Fatalf("VisitByShareID() error = %v", err)
			}
			if got.Visits != i {
				t.Errorf("visit %d: Visits = %d", i, got.Visits)
			}
		}

		if _, err := store.VisitByShareID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("VisitByShareID(missing) error = %v, want ErrNotFound", err)
		}
	})
}

func TestGetFormByShareID(t *testing.T) {
	runStores(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		form := newForm("Survey")
		publish(t, form)
		if err := store.CreateForm(ctx, form); err != nil {
			t.Fatalf("CreateForm() error = %v", err)
		}

		got, err := store.GetFormByShareID(ctx, form.ShareID)
		if err != nil {
			t.Fatalf("GetFormByShareID() error = %v", err)
		}
		if got.ID != form.ID {
			t.Errorf("GetFormByShareID() id = %q, want %q", got.ID, form.ID)
		}
		if got.Visits != 0 {
			t.Errorf("GetFormByShareID() must not count a visit, Visits = %d", got.Visits)
		}

		if _, err := store.GetFormByShareID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetFormByShareID(missing) error = %v, want ErrNotFound", err)
		}
	})
}

func TestVisitRequiresPublished(t *testing.T) {
	runStores(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		form := newForm("Draft")
		form.ShareID = "stale-share-id"
		if err := store.CreateForm(ctx, form); err != nil {
			t.Fatalf("CreateForm() error = %v", err)
		}

		if _, err := store.VisitByShareID(ctx, form.ShareID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("VisitByShareID() on unpublished form error = %v, want ErrNotFound", err)
		}
	})
}

func TestSaveAttemptUpsertsByTag(t *testing.T) {
	runStores(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		form := newForm("Survey")
		publish(t, form)
		if err := store.CreateForm(ctx, form); err != nil {
			t.Fatalf("CreateForm() error = %v", err)
		}

		attempt := lifecycle.NewAttempt("", form.ID, "tag-1", form.Content)
		if err := attempt.SaveProgress(map[string]string{"f1": "draft"}); err != nil {
			t.Fatalf("SaveProgress() error = %v", err)
		}
		if err := store.SaveAttempt(ctx, attempt); err != nil {
			t.Fatalf("SaveAttempt() error = %v", err)
		}
		firstID := attempt.ID

		// same tag resumes the same attempt
		resumed, err := store.GetAttempt(ctx, form.ID, "tag-1")
		if err != nil {
			t.Fatalf("GetAttempt() error = %v", err)
		}
		if resumed.ID != firstID {
			t.Errorf("resumed id = %q, want %q", resumed.ID, firstID)
		}
		if diff := cmp.Diff(map[string]string{"f1": "draft"}, resumed.Values); diff != "" {
			t.Errorf("values mismatch (-want +got):\n%s", diff)
		}

		if err := resumed.SaveProgress(map[string]string{"f1": "final"}); err != nil {
			t.Fatalf("SaveProgress() error = %v", err)
		}
		if err := store.SaveAttempt(ctx, resumed); err != nil {
			t.Fatalf("SaveAttempt() error = %v", err)
		}

		attempts, err := store.ListAttempts(ctx, form.ID)
		if err != nil {
			t.Fatalf("ListAttempts() error = %v", err)
		}
		if len(attempts) != 1 {
			t.Fatalf("ListAttempts() returned %d attempts, want 1", len(attempts))
		}
		if attempts[0].Values["f1"] != "final" {
			t.Errorf("values = %v, want last write", attempts[0].Values)
		}
	})
}

func TestSaveAttemptCountsSubmissionOnce(t *testing.T) {
	runStores(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		form := newForm("Survey")
		publish(t, form)
		if err := store.CreateForm(ctx, form); err != nil {
			t.Fatalf("CreateForm() error = %v", err)
		}

		attempt := lifecycle.NewAttempt("", form.ID, "tag-1", form.Content)
		if err := attempt.SaveProgress(map[string]string{"f1": "x"}); err != nil {
			t.Fatalf("SaveProgress() error = %v", err)
		}
		if err := store.SaveAttempt(ctx, attempt); err != nil {
			t.Fatalf("SaveAttempt() error = %v", err)
		}

		got, err := store.GetForm(ctx, form.ID)
		if err != nil {
			t.Fatalf("GetForm() error = %v", err)
		}
		if got.Submissions != 0 {
			t.Errorf("Submissions after partial save = %d, want 0", got.Submissions)
		}

		if err := attempt.Complete(map[string]string{"f1": "done"}); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if err := store.SaveAttempt(ctx, attempt); err != nil {
			t.Fatalf("SaveAttempt() error = %v", err)
		}

		got, err = store.GetForm(ctx, form.ID)
		if err != nil {
			t.Fatalf("GetForm() error = %v", err)
		}
		if got.Submissions != 1 {
			t.Errorf("Submissions after complete = %d, want 1", got.Submissions)
		}

		// saving the completed attempt again must not double count
		if err := store.SaveAttempt(ctx, attempt); err != nil {
			t.Fatalf("SaveAttempt() error = %v", err)
		}
		got, err = store.GetForm(ctx, form.ID)
		if err != nil {
			t.Fatalf("GetForm() error = %v", err)
		}
		if got.Submissions != 1 {
			t.Errorf("Submissions after re-save = %d, want 1", got.Submissions)
		}
	})
}

func TestSaveAttemptUnknownForm(t *testing.T) {
	runStores(t, func(t *testing.T, store Store) {
		attempt := lifecycle.NewAttempt("", "missing", "tag-1", "[]")
		if err := store.SaveAttempt(context.Background(), attempt); !errors.Is(err, ErrNotFound) {
			t.Fatalf("SaveAttempt() error = %v, want ErrNotFound", err)
		}
	})
}

func TestGetAttemptNotFound(t *testing.T) {
	runStores(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		form := newForm("Survey")
		if err := store.CreateForm(ctx, form); err != nil {
			t.Fatalf("CreateForm() error = %v", err)
		}

		if _, err := store.GetAttempt(ctx, form.ID, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("GetAttempt() error = %v, want ErrNotFound", err)
		}
		if _, err := store.GetAttempt(ctx, form.ID, ""); !errors.Is(err, ErrNotFound) {
			t.Fatalf("GetAttempt() with empty tag error = %v, want ErrNotFound", err)
		}
	})
}
