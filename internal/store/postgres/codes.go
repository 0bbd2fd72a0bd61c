package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cargohub/authcore/pkg/otp"
	"github.com/cargohub/authcore/pkg/pg"
)

// CodeStore persists one-time codes. It implements otp.Store.
type CodeStore struct {
	db DB
}

func NewCodeStore(db DB) *CodeStore {
	return &CodeStore{db: db}
}

func (s *CodeStore) CreateCode(ctx context.Context, c otp.Code) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO one_time_codes (id, person_id, code_digest, expires_at, attempts, used, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.PersonID, c.CodeDigest, c.ExpiresAt, c.Attempts, c.Used, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create code: %w", err)
	}
	return nil
}

func (s *CodeStore) FindCurrentCode(ctx context.Context, personID uuid.UUID) (otp.Code, error) {
	var c otp.Code
	err := s.db.QueryRow(ctx,
		`SELECT id, person_id, code_digest, expires_at, attempts, used, created_at
		 FROM one_time_codes
		 WHERE person_id = $1 AND NOT used
		 ORDER BY created_at DESC, seq DESC
		 LIMIT 1`,
		personID,
	).Scan(&c.ID, &c.PersonID, &c.CodeDigest, &c.ExpiresAt, &c.Attempts, &c.Used, &c.CreatedAt)
	switch {
	case pg.IsNotFoundError(err):
		return otp.Code{}, otp.ErrNotFound
	case err != nil:
		return otp.Code{}, fmt.Errorf("find current code: %w", err)
	}
	return c, nil
}

// IncrementAttempts reserves one attempt. A row that is exhausted, used or
// gone reports otp.ErrTooManyAttempts.
func (s *CodeStore) IncrementAttempts(ctx context.Context, id uuid.UUID, maxAttempts int) (int, error) {
	var attempts int
	err := s.db.QueryRow(ctx,
		`UPDATE one_time_codes SET attempts = attempts + 1
		 WHERE id = $1 AND NOT used AND attempts < $2
		 RETURNING attempts`,
		id, maxAttempts,
	).Scan(&attempts)
	switch {
	case pg.IsNotFoundError(err):
		return 0, otp.ErrTooManyAttempts
	case err != nil:
		return 0, fmt.Errorf("increment attempts: %w", err)
	}
	return attempts, nil
}

func (s *CodeStore) MarkCodeUsed(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `UPDATE one_time_codes SET used = true WHERE id = $1 AND NOT used`, id)
	if err != nil {
		return fmt.Errorf("mark code used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return otp.ErrNotFound
	}
	return nil
}
