package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Hy0g0/Cadavre-exquis/internal/domain"
)

// Latest returns the most recently appended sentence (highest id),
// or nil if the story is still empty.
func (s *Store) Latest(ctx context.Context) (*domain.Sentence, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, text, author, created_at, client_id
		FROM sentences
		ORDER BY id DESC
		LIMIT 1
	`)

	sen, err := scanSentence(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest sentence: %w", err)
	}
	return sen, nil
}

// Append stamps the sentence with the current UTC time, inserts it and
// returns the stored record. The insert is committed before return.
func (s *Store) Append(ctx context.Context, text, author, clientID string) (*domain.Sentence, error) {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sentences (text, author, created_at, client_id)
		VALUES (?, ?, ?, ?)
	`, text, author, now.Format(domain.TimeLayout), clientID)
	if err != nil {
		return nil, fmt.Errorf("insert sentence: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert sentence id: %w", err)
	}

	return &domain.Sentence{
		ID:        id,
		Text:      text,
		Author:    author,
		CreatedAt: now,
		ClientID:  clientID,
	}, nil
}

// HasSubmittedToday reports whether the client already appended a
// sentence since UTC midnight. "Today" is a UTC calendar day regardless
// of the client's timezone.
func (s *Store) HasSubmittedToday(ctx context.Context, clientID string) (bool, error) {
	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)

	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1
		FROM sentences
		WHERE client_id = ?
		  AND created_at >= ?
		LIMIT 1
	`, clientID, startOfDay.Format(domain.TimeLayout)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query submissions for today: %w", err)
	}
	return true, nil
}

func scanSentence(row *sql.Row) (*domain.Sentence, error) {
	var (
		sen       domain.Sentence
		createdAt string
	)
	if err := row.Scan(&sen.ID, &sen.Text, &sen.Author, &createdAt, &sen.ClientID); err != nil {
		return nil, err
	}

	ts, err := time.Parse(domain.TimeLayout, createdAt)
	if err != nil {
		// Rows written before the fixed layout existed.
		ts, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
	}
	sen.CreatedAt = ts
	return &sen, nil
}
