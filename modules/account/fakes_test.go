package account_test

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"github.com/google/uuid"

	"github.com/cargohub/authcore/pkg/email"
	"github.com/cargohub/authcore/svc/auth"
)

type personStore struct {
	mu      sync.Mutex
	byEmail map[string]auth.Person
	roles   map[string]string
}

func newPersonStore() *personStore {
	return &personStore{byEmail: map[string]auth.Person{}, roles: map[string]string{}}
}

func (s *personStore) add(p auth.Person, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byEmail[p.Email] = p
	s.roles[p.Email] = role
}

func (s *personStore) FindPersonByEmail(_ context.Context, address string) (auth.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byEmail[address]
	if !ok {
		return auth.Person{}, auth.ErrNotFound
	}
	return p, nil
}

func (s *personStore) FindPersonByID(_ context.Context, id uuid.UUID) (auth.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byEmail {
		if p.ID == id {
			return p, nil
		}
	}
	return auth.Person{}, auth.ErrNotFound
}

func (s *personStore) UpdatePasswordDigest(_ context.Context, personID uuid.UUID, digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for address, p := range s.byEmail {
		if p.ID == personID && p.Access != nil {
			access := *p.Access
			access.PasswordDigest = digest
			p.Access = &access
			s.byEmail[address] = p
			return nil
		}
	}
	return auth.ErrNotFound
}

func (s *personStore) ResolveRole(_ context.Context, address string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roles[address], nil
}

type outbox struct {
	mu   sync.Mutex
	sent []email.SendEmailParams
	fail bool
}

func (o *outbox) SendEmail(_ context.Context, params email.SendEmailParams) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail {
		return errors.New("smtp: 421 service not available")
	}
	o.sent = append(o.sent, params)
	return nil
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}

func (o *outbox) last() email.SendEmailParams {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.sent) == 0 {
		return email.SendEmailParams{}
	}
	return o.sent[len(o.sent)-1]
}

var (
	codePattern  = regexp.MustCompile(`\b\d{6}\b`)
	tokenPattern = regexp.MustCompile(`token=([A-Za-z0-9_-]{43})`)
)

func (o *outbox) lastCode() string {
	return codePattern.FindString(o.last().BodyText)
}

func (o *outbox) lastToken() string {
	m := tokenPattern.FindStringSubmatch(o.last().BodyText)
	if m == nil {
		return ""
	}
	return m[1]
}
