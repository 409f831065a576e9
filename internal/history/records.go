package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const entryColumns = `id, created_at, updated_at, input_path, output_path, container,
    video_codec, audio_codec, status, progress_percent, estimated_size_bytes,
    actual_size_bytes, error_message`

// Begin records a conversion as running and returns its populated entry. A
// missing ID is assigned; timestamps are set to now.
func (s *Store) Begin(ctx context.Context, entry Entry) (*Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	entry.Status = StatusRunning

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (
            id, created_at, updated_at, input_path, output_path, container,
            video_codec, audio_codec, status, progress_percent,
            estimated_size_bytes, actual_size_bytes, error_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
		entry.InputPath,
		entry.OutputPath,
		entry.Container,
		entry.VideoCodec,
		entry.AudioCodec,
		entry.Status,
		entry.ProgressPercent,
		entry.EstimatedSizeBytes,
		entry.ActualSizeBytes,
		entry.ErrorMessage,
	)
	if err != nil {
		return nil, fmt.Errorf("insert conversion: %w", err)
	}
	return &entry, nil
}

// SetProgress updates the recorded completion percentage.
func (s *Store) SetProgress(ctx context.Context, id string, percent int) error {
	return s.update(ctx,
		`UPDATE conversions SET progress_percent = ?, updated_at = ? WHERE id = ?`,
		percent, nowStamp(), id)
}

// Complete marks the conversion finished and records the output size.
func (s *Store) Complete(ctx context.Context, id string, actualSizeBytes int64) error {
	return s.update(ctx,
		`UPDATE conversions SET status = ?, progress_percent = 100, actual_size_bytes = ?, updated_at = ? WHERE id = ?`,
		StatusCompleted, actualSizeBytes, nowStamp(), id)
}

// Fail marks the conversion failed with the surfaced message.
func (s *Store) Fail(ctx context.Context, id, message string) error {
	return s.update(ctx,
		`UPDATE conversions SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		StatusFailed, message, nowStamp(), id)
}

// Cancel marks the conversion cancelled.
func (s *Store) Cancel(ctx context.Context, id string) error {
	return s.update(ctx,
		`UPDATE conversions SET status = ?, updated_at = ? WHERE id = ?`,
		StatusCancelled, nowStamp(), id)
}

// Get fetches an entry by identifier, or nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM conversions WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversion: %w", err)
	}
	return entry, nil
}

// Recent returns the newest entries first, capped at limit when positive.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM conversions ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversions: %w", err)
	}
	return entries, nil
}

// Clear removes every recorded conversion.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM conversions`)
	if err != nil {
		return fmt.Errorf("clear conversions: %w", err)
	}
	return nil
}

func (s *Store) update(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update conversion: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("conversion not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry     Entry
		createdAt string
		updatedAt string
		status    string
	)
	err := row.Scan(
		&entry.ID,
		&createdAt,
		&updatedAt,
		&entry.InputPath,
		&entry.OutputPath,
		&entry.Container,
		&entry.VideoCodec,
		&entry.AudioCodec,
		&status,
		&entry.ProgressPercent,
		&entry.EstimatedSizeBytes,
		&entry.ActualSizeBytes,
		&entry.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}
	entry.Status = Status(status)
	if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
		entry.CreatedAt = ts
	}
	if ts, parseErr := time.Parse(time.RFC3339Nano, updatedAt); parseErr == nil {
		entry.UpdatedAt = ts
	}
	return &entry, nil
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
