package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/roach88/murmur/internal/entry"
)

const entryColumns = `id, transcript, content, category, source_text, summary, notes,
	priority, due_date_description, due_date, cadence, status, completed_at,
	snooze_until, audio_duration, source, created_at, updated_at`

// Insert writes a new entry. Returns ErrDuplicate if the id already exists.
func (s *Store) Insert(ctx context.Context, e entry.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID.String(), e.Transcript, e.Content, string(e.Category), e.SourceText, e.Summary, e.Notes,
		e.Priority, e.DueDateDescription, formatTimePtr(e.DueDate), cadenceValue(e.Cadence),
		string(e.Status), formatTimePtr(e.CompletedAt), formatTimePtr(e.SnoozeUntil),
		e.AudioDuration, string(e.Source), formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("insert entry %s: %w", e.ID, ErrDuplicate)
		}
		return fmt.Errorf("insert entry %s: %w", e.ID, err)
	}
	return nil
}

// Replace overwrites every column of an existing entry except id.
// Returns ErrNotFound if no row has the entry's id.
func (s *Store) Replace(ctx context.Context, e entry.Entry) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE entries SET
			transcript = ?, content = ?, category = ?, source_text = ?, summary = ?, notes = ?,
			priority = ?, due_date_description = ?, due_date = ?, cadence = ?, status = ?,
			completed_at = ?, snooze_until = ?, audio_duration = ?, source = ?,
			created_at = ?, updated_at = ?
		WHERE id = ?
	`,
		e.Transcript, e.Content, string(e.Category), e.SourceText, e.Summary, e.Notes,
		e.Priority, e.DueDateDescription, formatTimePtr(e.DueDate), cadenceValue(e.Cadence),
		string(e.Status), formatTimePtr(e.CompletedAt), formatTimePtr(e.SnoozeUntil),
		e.AudioDuration, string(e.Source), formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
		e.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("replace entry %s: %w", e.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace entry %s: rows affected: %w", e.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("replace entry %s: %w", e.ID, ErrNotFound)
	}
	return nil
}

// Delete removes an entry and reports whether a row was removed.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("delete entry %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete entry %s: rows affected: %w", id, err)
	}
	return n > 0, nil
}

// Get returns the entry with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (entry.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id.String())
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entry.Entry{}, fmt.Errorf("get entry %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return entry.Entry{}, fmt.Errorf("get entry %s: %w", id, err)
	}
	return e, nil
}

// List returns every entry, newest first.
func (s *Store) List(ctx context.Context) ([]entry.Entry, error) {
	return s.queryEntries(ctx, `
		SELECT `+entryColumns+` FROM entries
		ORDER BY created_at DESC, id ASC
	`)
}

// ListByStatus returns entries with the given status, newest first.
func (s *Store) ListByStatus(ctx context.Context, status entry.Status) ([]entry.Entry, error) {
	return s.queryEntries(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE status = ?
		ORDER BY created_at DESC, id ASC
	`, string(status))
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]entry.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []entry.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (entry.Entry, error) {
	var (
		e                            entry.Entry
		id, category, status, source string
		priority                     sql.NullInt64
		dueDesc, dueDate, cadence    sql.NullString
		completedAt, snoozeUntil     sql.NullString
		audioDuration                sql.NullFloat64
		createdAt, updatedAt         string
	)

	err := sc.Scan(
		&id, &e.Transcript, &e.Content, &category, &e.SourceText, &e.Summary, &e.Notes,
		&priority, &dueDesc, &dueDate, &cadence, &status, &completedAt,
		&snoozeUntil, &audioDuration, &source, &createdAt, &updatedAt,
	)
	if err != nil {
		return entry.Entry{}, err
	}

	if e.ID, err = uuid.Parse(id); err != nil {
		return entry.Entry{}, fmt.Errorf("parse entry id %q: %w", id, err)
	}
	e.Category = entry.CategoryOrDefault(category)
	e.Status = entry.StatusOrDefault(status)
	e.Source = entry.SourceOrDefault(source)

	if priority.Valid {
		p := int(priority.Int64)
		e.Priority = &p
	}
	if dueDesc.Valid {
		d := dueDesc.String
		e.DueDateDescription = &d
	}
	if cadence.Valid {
		if c, err := entry.ParseCadence(cadence.String); err == nil {
			e.Cadence = &c
		}
	}
	if audioDuration.Valid {
		d := audioDuration.Float64
		e.AudioDuration = &d
	}

	if e.DueDate, err = parseTimePtr(dueDate); err != nil {
		return entry.Entry{}, fmt.Errorf("entry %s due_date: %w", id, err)
	}
	if e.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return entry.Entry{}, fmt.Errorf("entry %s completed_at: %w", id, err)
	}
	if e.SnoozeUntil, err = parseTimePtr(snoozeUntil); err != nil {
		return entry.Entry{}, fmt.Errorf("entry %s snooze_until: %w", id, err)
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return entry.Entry{}, fmt.Errorf("entry %s created_at: %w", id, err)
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return entry.Entry{}, fmt.Errorf("entry %s updated_at: %w", id, err)
	}

	return e, nil
}

// timeLayout keeps every fraction digit so that stored text sorts in
// time order; RFC3339Nano trims trailing zeros and would not.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parseTimePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func cadenceValue(c *entry.Cadence) any {
	if c == nil {
		return nil
	}
	return string(*c)
}

// isConstraintViolation reports whether err is a primary key or unique
// constraint failure from the sqlite3 driver.
func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
