package recovery

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.Mutex
	tokens []Token
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) InvalidateActiveTokens(_ context.Context, personID uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tokens {
		if s.tokens[i].PersonID == personID && s.tokens[i].UsedAt == nil {
			s.tokens[i].UsedAt = &at
		}
	}
	return nil
}

func (s *MemoryStore) CreateToken(_ context.Context, t Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = append(s.tokens, t)
	return nil
}

func (s *MemoryStore) FindTokenByDigest(_ context.Context, digest string) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.TokenDigest == digest {
			return t, nil
		}
	}
	return Token{}, ErrNotFound
}

func (s *MemoryStore) MarkTokenUsed(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tokens {
		if s.tokens[i].ID != id {
			continue
		}
		if s.tokens[i].UsedAt == nil {
			s.tokens[i].UsedAt = &at
		}
		return nil
	}
	return ErrNotFound
}

// Tokens returns a copy of every stored row of personID.
func (s *MemoryStore) Tokens(personID uuid.UUID) []Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Token
	for _, t := range s.tokens {
		if t.PersonID == personID {
			out = append(out, t)
		}
	}
	return out
}

// Expire moves the expiry of every token of personID to at.
func (s *MemoryStore) Expire(personID uuid.UUID, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tokens {
		if s.tokens[i].PersonID == personID {
			s.tokens[i].ExpiresAt = at
		}
	}
}
