package otp_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/cargohub/authcore/pkg/email"
	"github.com/cargohub/authcore/pkg/otp"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []email.SendEmailParams
	err  error
}

func (s *recordingSender) SendEmail(_ context.Context, p email.SendEmailParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, p)
	return nil
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

// lastCode returns the code from the most recent message.
func (s *recordingSender) lastCode() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return "", errors.New("no message sent")
	}
	code := codePattern.FindString(s.sent[len(s.sent)-1].BodyText)
	if code == "" {
		return "", errors.New("no code in message")
	}
	return code, nil
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// gatedStore holds every FindCurrentCode until release is closed, so all
// callers observe the same row before any of them writes.
type gatedStore struct {
	*otp.MemoryStore
	read    *sync.WaitGroup
	release chan struct{}
}

func (s *gatedStore) FindCurrentCode(ctx context.Context, personID uuid.UUID) (otp.Code, error) {
	code, err := s.MemoryStore.FindCurrentCode(ctx, personID)
	s.read.Done()
	<-s.release
	return code, err
}

type countingHasher struct {
	otp.Hasher
	compared atomic.Int32
}

func (h *countingHasher) VerifyCode(plaintext, digest string) bool {
	h.compared.Add(1)
	return h.Hasher.VerifyCode(plaintext, digest)
}
