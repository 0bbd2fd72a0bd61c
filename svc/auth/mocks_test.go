package auth_test

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/cargohub/authcore/pkg/email"
	"github.com/cargohub/authcore/svc/auth"
)

// MockPersonStore is a mock implementation of auth.PersonStore.
type MockPersonStore struct {
	mock.Mock
}

func (m *MockPersonStore) FindPersonByEmail(ctx context.Context, address string) (auth.Person, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(auth.Person), args.Error(1)
}

func (m *MockPersonStore) FindPersonByID(ctx context.Context, id uuid.UUID) (auth.Person, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(auth.Person), args.Error(1)
}

func (m *MockPersonStore) UpdatePasswordDigest(ctx context.Context, personID uuid.UUID, digest string) error {
	args := m.Called(ctx, personID, digest)
	return args.Error(0)
}

func (m *MockPersonStore) ResolveRole(ctx context.Context, address string) (string, error) {
	args := m.Called(ctx, address)
	return args.String(0), args.Error(1)
}

// MockEmailSender is a mock implementation of email.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

// Sent returns the params of every SendEmail call so far.
func (m *MockEmailSender) Sent() []email.SendEmailParams {
	var out []email.SendEmailParams
	for _, c := range m.Calls {
		if c.Method == "SendEmail" {
			out = append(out, c.Arguments.Get(1).(email.SendEmailParams))
		}
	}
	return out
}

var (
	codePattern  = regexp.MustCompile(`\b\d{6}\b`)
	tokenPattern = regexp.MustCompile(`token=([A-Za-z0-9_-]{43})`)
)
