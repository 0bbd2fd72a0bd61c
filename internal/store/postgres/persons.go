package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cargohub/authcore/pkg/pg"
	"github.com/cargohub/authcore/svc/auth"
)

// PersonStore reads persons with their access record and writes password digests.
type PersonStore struct {
	db DB
}

func NewPersonStore(db DB) *PersonStore {
	return &PersonStore{db: db}
}

const selectPerson = `
SELECT p.id, p.email, a.id, a.password_digest
FROM persons p
LEFT JOIN person_access a ON a.person_id = p.id
`

func (s *PersonStore) FindPersonByEmail(ctx context.Context, email string) (auth.Person, error) {
	p, err := scanPerson(s.db.QueryRow(ctx, selectPerson+`WHERE p.email = $1`, email))
	if err != nil {
		return auth.Person{}, fmt.Errorf("find person by email: %w", err)
	}
	return p, nil
}

func (s *PersonStore) FindPersonByID(ctx context.Context, id uuid.UUID) (auth.Person, error) {
	p, err := scanPerson(s.db.QueryRow(ctx, selectPerson+`WHERE p.id = $1`, id))
	if err != nil {
		return auth.Person{}, fmt.Errorf("find person by id: %w", err)
	}
	return p, nil
}

func (s *PersonStore) UpdatePasswordDigest(ctx context.Context, personID uuid.UUID, digest string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE person_access SET password_digest = $2, updated_at = now() WHERE person_id = $1`,
		personID, digest,
	)
	if err != nil {
		return fmt.Errorf("update password digest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrNotFound
	}
	return nil
}

// ResolveRole returns the role of the person with email, or "" when none is assigned.
func (s *PersonStore) ResolveRole(ctx context.Context, email string) (string, error) {
	var role string
	err := s.db.QueryRow(ctx,
		`SELECT r.role FROM person_roles r JOIN persons p ON p.id = r.person_id WHERE p.email = $1`,
		email,
	).Scan(&role)
	switch {
	case pg.IsNotFoundError(err):
		return auth.RoleNone, nil
	case err != nil:
		return "", fmt.Errorf("resolve role: %w", err)
	}
	return role, nil
}

func scanPerson(row pgx.Row) (auth.Person, error) {
	var (
		p        auth.Person
		accessID *uuid.UUID
		digest   *string
	)
	if err := row.Scan(&p.ID, &p.Email, &accessID, &digest); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Person{}, auth.ErrNotFound
		}
		return auth.Person{}, err
	}
	if accessID != nil && digest != nil {
		p.Access = &auth.Access{ID: *accessID, PasswordDigest: *digest}
	}
	return p, nil
}
