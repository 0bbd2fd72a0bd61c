package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/cargohub/authcore/pkg/otp"
	"github.com/cargohub/authcore/pkg/recovery"
	"github.com/cargohub/authcore/pkg/token"
)

// Roles a person can resolve to. An empty role is valid and means none applies.
const (
	RoleCarrier = "carrier"
	RoleClient  = "client"
	RoleShipper = "shipper"
	RoleAdmin   = "admin"
	RoleNone    = ""
)

// Person is the identity record read during login and recovery.
// Access is nil when the person has no login credentials.
type Person struct {
	ID     uuid.UUID
	Email  string
	Access *Access
}

// Access holds a person's login credentials.
type Access struct {
	ID             uuid.UUID
	PasswordDigest string
}

// PersonStore is the person collaborator. Lookups return ErrNotFound when absent.
type PersonStore interface {
	FindPersonByEmail(ctx context.Context, email string) (Person, error)
	FindPersonByID(ctx context.Context, id uuid.UUID) (Person, error)
	UpdatePasswordDigest(ctx context.Context, personID uuid.UUID, digest string) error
	ResolveRole(ctx context.Context, email string) (string, error)
}

// PasswordHasher hashes and checks peppered passwords.
type PasswordHasher interface {
	HashPassword(plaintext string) (string, error)
	VerifyPassword(plaintext, digest string) bool
}

// CodeIssuer issues and checks second factor codes.
type CodeIssuer interface {
	Issue(ctx context.Context, personID uuid.UUID, address string) (otp.Issued, error)
	Verify(ctx context.Context, personID uuid.UUID, code string) error
}

// ResetTokens issues and redeems password reset tokens.
type ResetTokens interface {
	Issue(ctx context.Context, personID uuid.UUID, requesterIP string) (recovery.Issued, error)
	Validate(ctx context.Context, plaintext string) (recovery.Token, error)
	Consume(ctx context.Context, plaintext string) error
}

// TokenCodec issues and verifies signed tokens with payload T.
type TokenCodec[T any] interface {
	Issue(payload T) (token.Issued, error)
	Verify(value string) (T, error)
}
