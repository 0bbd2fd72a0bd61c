package otp

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for tests and single-instance development.
type MemoryStore struct {
	mu    sync.Mutex
	codes map[uuid.UUID][]Code // by person, in insertion order
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{codes: make(map[uuid.UUID][]Code)}
}

func (s *MemoryStore) CreateCode(_ context.Context, code Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code.PersonID] = append(s.codes[code.PersonID], code)
	return nil
}

func (s *MemoryStore) FindCurrentCode(_ context.Context, personID uuid.UUID) (Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.codes[personID]
	var (
		current Code
		found   bool
	)
	for _, c := range rows {
		if c.Used {
			continue
		}
		// later insertions win ties on CreatedAt
		if !found || !c.CreatedAt.Before(current.CreatedAt) {
			current, found = c, true
		}
	}
	if !found {
		return Code{}, ErrNotFound
	}
	return current, nil
}

func (s *MemoryStore) IncrementAttempts(_ context.Context, id uuid.UUID, maxAttempts int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.find(id)
	switch {
	case row == nil, row.Used:
		return 0, ErrNotFound
	case row.Attempts >= maxAttempts:
		return row.Attempts, ErrTooManyAttempts
	}
	row.Attempts++
	return row.Attempts, nil
}

func (s *MemoryStore) MarkCodeUsed(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.find(id)
	if row == nil || row.Used {
		return ErrNotFound
	}
	row.Used = true
	return nil
}

// find returns the row with id. Callers hold mu.
func (s *MemoryStore) find(id uuid.UUID) *Code {
	for _, rows := range s.codes {
		for i := range rows {
			if rows[i].ID == id {
				return &rows[i]
			}
		}
	}
	return nil
}

// Codes returns a copy of every row stored for personID.
func (s *MemoryStore) Codes(personID uuid.UUID) []Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Code(nil), s.codes[personID]...)
}
