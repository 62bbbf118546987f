package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a named stack has no record.
var ErrNotFound = errors.New("stack not found")

// ErrChecksumMismatch is returned when a stored record fails verification.
var ErrChecksumMismatch = errors.New("stack checksum mismatch")

// Record is one stored stack with its metadata.
type Record struct {
	Name      string
	Primary   []float64
	Secondary []float64
	Checksum  string
	SessionID string
	UpdatedAt time.Time
}

// Load returns the stacks saved under name, in push order.
// A name that was never saved yields two empty stacks and no error.
func (s *Store) Load(ctx context.Context, name string) (primary, secondary []float64, err error) {
	rec, err := s.Lookup(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return []float64{}, []float64{}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return rec.Primary, rec.Secondary, nil
}

// Save writes both stacks under name in a single transaction.
// The write is skipped when the stored checksum already matches, so an
// unchanged stack keeps its session and timestamp.
func (s *Store) Save(ctx context.Context, name string, primary, secondary []float64) error {
	p := encodeValues(primary)
	sec := encodeValues(secondary)
	sum := checksum(p, sec)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save stack %q: begin tx: %w", name, err)
	}
	defer tx.Rollback() // No-op if committed

	var existing string
	err = tx.QueryRowContext(ctx, `SELECT checksum FROM stacks WHERE name = ?`, name).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("save stack %q: %w", name, err)
	case existing == sum:
		return nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stacks
		(name, primary_values, secondary_values, checksum, session_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			primary_values   = excluded.primary_values,
			secondary_values = excluded.secondary_values,
			checksum         = excluded.checksum,
			session_id       = excluded.session_id,
			updated_at       = excluded.updated_at
	`,
		name,
		p,
		sec,
		sum,
		s.session,
		s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save stack %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save stack %q: commit: %w", name, err)
	}
	return nil
}

// ListNames returns every stored stack name in byte order.
func (s *Store) ListNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM stacks ORDER BY name COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("list stacks: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list stacks: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stacks: %w", err)
	}
	return names, nil
}

// Lookup returns the full record for name, or ErrNotFound.
func (s *Store) Lookup(ctx context.Context, name string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, primary_values, secondary_values, checksum, session_id, updated_at
		FROM stacks
		WHERE name = ?
	`, name)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("load stack %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("load stack %q: %w", name, err)
	}
	return rec, nil
}

// Records returns every stored stack ordered by name.
func (s *Store) Records(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, primary_values, secondary_values, checksum, session_id, updated_at
		FROM stacks
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("read stacks: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("read stacks: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read stacks: %w", err)
	}
	return records, nil
}

// Delete removes the record for name, or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stacks WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete stack %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete stack %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete stack %q: %w", name, ErrNotFound)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one row and verifies its checksum before decoding.
func scanRecord(row rowScanner) (Record, error) {
	var (
		rec       Record
		p, sec    string
		updatedMs int64
	)
	if err := row.Scan(&rec.Name, &p, &sec, &rec.Checksum, &rec.SessionID, &updatedMs); err != nil {
		return Record{}, err
	}

	if got := checksum(p, sec); got != rec.Checksum {
		return Record{}, fmt.Errorf("%w: stored %s, computed %s", ErrChecksumMismatch, rec.Checksum, got)
	}

	var err error
	if rec.Primary, err = decodeValues(p); err != nil {
		return Record{}, fmt.Errorf("primary stack: %w", err)
	}
	if rec.Secondary, err = decodeValues(sec); err != nil {
		return Record{}, fmt.Errorf("secondary stack: %w", err)
	}
	rec.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return rec, nil
}
