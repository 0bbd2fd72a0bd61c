package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cargohub/authcore/pkg/pg"
	"github.com/cargohub/authcore/pkg/recovery"
)

// RecoveryStore persists password reset tokens. It implements recovery.Store.
type RecoveryStore struct {
	db DB
}

func NewRecoveryStore(db DB) *RecoveryStore {
	return &RecoveryStore{db: db}
}

func (s *RecoveryStore) InvalidateActiveTokens(ctx context.Context, personID uuid.UUID, at time.Time) error {
	_, err := s.db.Exec(ctx,
		`UPDATE recovery_tokens SET used_at = $2 WHERE person_id = $1 AND used_at IS NULL`,
		personID, at,
	)
	if err != nil {
		return fmt.Errorf("invalidate recovery tokens: %w", err)
	}
	return nil
}

func (s *RecoveryStore) CreateToken(ctx context.Context, t recovery.Token) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO recovery_tokens (id, person_id, token_digest, expires_at, requester_ip, used_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.PersonID, t.TokenDigest, t.ExpiresAt, t.RequesterIP, t.UsedAt, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create recovery token: %w", err)
	}
	return nil
}

func (s *RecoveryStore) FindTokenByDigest(ctx context.Context, digest string) (recovery.Token, error) {
	var t recovery.Token
	err := s.db.QueryRow(ctx,
		`SELECT id, person_id, token_digest, expires_at, requester_ip, used_at, created_at
		 FROM recovery_tokens
		 WHERE token_digest = $1`,
		digest,
	).Scan(&t.ID, &t.PersonID, &t.TokenDigest, &t.ExpiresAt, &t.RequesterIP, &t.UsedAt, &t.CreatedAt)
	switch {
	case pg.IsNotFoundError(err):
		return recovery.Token{}, recovery.ErrNotFound
	case err != nil:
		return recovery.Token{}, fmt.Errorf("find recovery token: %w", err)
	}
	return t, nil
}

// MarkTokenUsed keeps the first used_at of a row that is already used.
func (s *RecoveryStore) MarkTokenUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE recovery_tokens SET used_at = COALESCE(used_at, $2) WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("mark recovery token used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return recovery.ErrNotFound
	}
	return nil
}
