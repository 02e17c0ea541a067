package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-formbuilder/pkg/lifecycle"
)

// SQLiteStore implements Store on a SQLite database file. ":memory:" works
// for throwaway instances.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY on concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS forms (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		published INTEGER NOT NULL DEFAULT 0,
		share_id TEXT NOT NULL DEFAULT '',
		visits INTEGER NOT NULL DEFAULT 0,
		submissions INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_forms_owner_id ON forms(owner_id);
	CREATE INDEX IF NOT EXISTS idx_forms_share_id ON forms(share_id);

	CREATE TABLE IF NOT EXISTS attempts (
		id TEXT PRIMARY KEY,
		form_id TEXT NOT NULL REFERENCES forms(id),
		progress_tag TEXT NOT NULL DEFAULT '',
		field_values TEXT NOT NULL DEFAULT '{}',
		content_snapshot TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_attempts_form_id ON attempts(form_id);
	CREATE INDEX IF NOT EXISTS idx_attempts_progress_tag ON attempts(form_id, progress_tag);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("storage: migrate: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateForm(ctx context.Context, form *lifecycle.Form) error {
	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	if form.CreatedAt.IsZero() {
		form.CreatedAt = time.Now().UTC()
	}
	if form.UpdatedAt.IsZero() {
		form.UpdatedAt = form.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO forms (id, owner_id, name, description, content, published, share_id, visits, submissions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		form.ID, form.OwnerID, form.Name, form.Description, form.Content,
		boolToInt(form.Published), form.ShareID, form.Visits, form.Submissions,
		formatTime(form.CreatedAt), formatTime(form.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: form %q", ErrDuplicateID, form.ID)
		}
		return fmt.Errorf("storage: create form: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetForm(ctx context.Context, id string) (*lifecycle.Form, error) {
	row := s.db.QueryRowContext(ctx, selectForm+` WHERE id = ?`, id)
	form, err := scanForm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: form %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get form: %w", err)
	}
	return form, nil
}

func (s *SQLiteStore) ListForms(ctx context.Context, ownerID string) ([]*lifecycle.Form, error) {
	query := selectForm + ` ORDER BY created_at DESC, id`
	args := []any{}
	if ownerID != "" {
		query = selectForm + ` WHERE owner_id = ? ORDER BY created_at DESC, id`
		args = append(args, ownerID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: list forms: %w", err)
	}
	defer rows.Close()

	var forms []*lifecycle.Form
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: list forms: %w", err)
		}
		forms = append(forms, form)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: list forms: %w", err)
	}
	return forms, nil
}

func (s *SQLiteStore) UpdateForm(ctx context.Context, form *lifecycle.Form) error {
	// visits and submissions are deliberately absent: counters move only
	// through VisitByShareID and SaveAttempt.
	res, err := s.db.ExecContext(ctx, `
		UPDATE forms
		SET owner_id = ?, name = ?, description = ?, content = ?, published = ?, share_id = ?, updated_at = ?
		WHERE id = ?`,
		form.OwnerID, form.Name, form.Description, form.Content,
		boolToInt(form.Published), form.ShareID, formatTime(form.UpdatedAt),
		form.ID,
	)
	if err != nil {
		return fmt.Errorf("storage: update form: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: update form: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: form %q", ErrNotFound, form.ID)
	}
	return nil
}

func (s *SQLiteStore) GetFormByShareID(ctx context.Context, shareID string) (*lifecycle.Form, error) {
	row := s.db.QueryRowContext(ctx, selectForm+` WHERE share_id = ? AND published = 1`, shareID)
	form, err := scanForm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: share id %q", ErrNotFound, shareID)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get form by share id: %w", err)
	}
	return form, nil
}

func (s *SQLiteStore) VisitByShareID(ctx context.Context, shareID string) (*lifecycle.Form, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE forms SET visits = visits + 1
		WHERE share_id = ? AND published = 1`, shareID)
	if err != nil {
		return nil, fmt.Errorf("storage: record visit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("storage: record visit: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: share id %q", ErrNotFound, shareID)
	}

	row := s.db.QueryRowContext(ctx, selectForm+` WHERE share_id = ? AND published = 1`, shareID)
	form, err := scanForm(row)
	if err != nil {
		return nil, fmt.Errorf("storage: record visit: %w", err)
	}
	return form, nil
}

func (s *SQLiteStore) SaveAttempt(ctx context.Context, attempt *lifecycle.Attempt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: save attempt: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM forms WHERE id = ?`, attempt.FormID).Scan(&exists); err != nil {
		return fmt.Errorf("storage: save attempt: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: form %q", ErrNotFound, attempt.FormID)
	}

	var priorID, priorState string
	switch {
	case attempt.ProgressTag != "":
		err = tx.QueryRowContext(ctx,
			`SELECT id, state FROM attempts WHERE form_id = ? AND progress_tag = ?`,
			attempt.FormID, attempt.ProgressTag,
		).Scan(&priorID, &priorState)
	case attempt.ID != "":
		err = tx.QueryRowContext(ctx,
			`SELECT id, state FROM attempts WHERE id = ?`, attempt.ID,
		).Scan(&priorID, &priorState)
	default:
		err = sql.ErrNoRows
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("storage: save attempt: %w", err)
	}

	if attempt.ID == "" {
		attempt.ID = priorID
	}
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}

	values, err := json.Marshal(attempt.Values)
	if err != nil {
		return fmt.Errorf("storage: save attempt: encode values: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO attempts (id, form_id, progress_tag, field_values, content_snapshot, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			field_values = excluded.field_values,
			state = excluded.state,
			updated_at = excluded.updated_at`,
		attempt.ID, attempt.FormID, attempt.ProgressTag, string(values),
		attempt.ContentSnapshot, string(attempt.State),
		formatTime(attempt.CreatedAt), formatTime(attempt.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("storage: save attempt: %w", err)
	}

	newlyCompleted := attempt.State == lifecycle.ProgressCompleted &&
		priorState != string(lifecycle.ProgressCompleted)
	if newlyCompleted {
		if _, err := tx.ExecContext(ctx,
			`UPDATE forms SET submissions = submissions + 1 WHERE id = ?`,
			attempt.FormID,
		); err != nil {
			return fmt.Errorf("storage: save attempt: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: save attempt: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetAttempt(ctx context.Context, formID, progressTag string) (*lifecycle.Attempt, error) {
	if progressTag == "" {
		return nil, fmt.Errorf("%w: attempt for form %q tag %q", ErrNotFound, formID, progressTag)
	}

	row := s.db.QueryRowContext(ctx, selectAttempt+` WHERE form_id = ? AND progress_tag = ?`, formID, progressTag)
	attempt, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: attempt for form %q tag %q", ErrNotFound, formID, progressTag)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get attempt: %w", err)
	}
	return attempt, nil
}

func (s *SQLiteStore) ListAttempts(ctx context.Context, formID string) ([]*lifecycle.Attempt, error) {
	rows, err := s.db.QueryContext(ctx, selectAttempt+` WHERE form_id = ? ORDER BY created_at, id`, formID)
	if err != nil {
		return nil, fmt.Errorf("storage: list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*lifecycle.Attempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: list attempts: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: list attempts: %w", err)
	}
	return attempts, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const (
	selectForm = `SELECT id, owner_id, name, description, content, published, share_id, visits, submissions, created_at, updated_at FROM forms`

	selectAttempt = `SELECT id, form_id, progress_tag, field_values, content_snapshot, state, created_at, updated_at FROM attempts`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (*lifecycle.Form, error) {
	var form lifecycle.Form
	var published int
	var createdAt, updatedAt string

	err := row.Scan(
		&form.ID, &form.OwnerID, &form.Name, &form.Description, &form.Content,
		&published, &form.ShareID, &form.Visits, &form.Submissions,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	form.Published = published != 0
	if form.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if form.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &form, nil
}

func scanAttempt(row rowScanner) (*lifecycle.Attempt, error) {
	var attempt lifecycle.Attempt
	var values, state, createdAt, updatedAt string

	err := row.Scan(
		&attempt.ID, &attempt.FormID, &attempt.ProgressTag, &values,
		&attempt.ContentSnapshot, &state, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(values), &attempt.Values); err != nil {
		return nil, fmt.Errorf("decode values: %w", err)
	}
	attempt.State = lifecycle.ProgressState(state)
	if attempt.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if attempt.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	// modernc.org/sqlite surfaces constraint failures in the error text
	return strings.Contains(err.Error(), "constraint failed")
}
