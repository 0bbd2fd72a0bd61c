package otp_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cargohub/authcore/pkg/hasher"
	"github.com/cargohub/authcore/pkg/otp"
)

type fixture struct {
	engine *otp.Engine
	store  *otp.MemoryStore
	sender *recordingSender
	clock  *testClock
	hasher *hasher.Hasher
}

func newFixture(t *testing.T, opts ...otp.Option) *fixture {
	t.Helper()
	h, err := hasher.New(hasher.Config{Pepper: "test-pepper", BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)

	f := &fixture{
		store:  otp.NewMemoryStore(),
		sender: &recordingSender{},
		clock:  &testClock{now: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)},
		hasher: h,
	}
	opts = append([]otp.Option{otp.WithClock(f.clock.Now)}, opts...)
	f.engine = otp.NewEngine(f.store, h, f.sender, opts...)
	return f
}

func (f *fixture) issue(t *testing.T, personID uuid.UUID) string {
	t.Helper()
	_, err := f.engine.Issue(context.Background(), personID, "dispatch@carrier.example")
	require.NoError(t, err)
	code, err := f.sender.lastCode()
	require.NoError(t, err)
	return code
}

func wrongCode(code string) string {
	if code == "000000" {
		return "000001"
	}
	return "000000"
}

func TestEngine_Issue(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	personID := uuid.New()

	issued, err := f.engine.Issue(context.Background(), personID, "dispatch@carrier.example")
	require.NoError(t, err)
	assert.Equal(t, f.clock.now.Add(10*time.Minute), issued.ExpiresAt)

	require.Len(t, f.sender.sent, 1)
	msg := f.sender.sent[0]
	assert.Equal(t, "dispatch@carrier.example", msg.SendTo)
	assert.Contains(t, msg.BodyText, "10 minutes")
	assert.NotEmpty(t, msg.BodyHTML)

	code, err := f.sender.lastCode()
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, code)
	assert.Contains(t, msg.BodyHTML, ">"+code+"</p>")
	assert.Contains(t, msg.BodyHTML, "valid for 10 minutes")

	rows := f.store.Codes(personID)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Attempts)
	assert.False(t, rows[0].Used)
	assert.NotEqual(t, code, rows[0].CodeDigest)
	assert.NotContains(t, rows[0].CodeDigest, code)
}

func TestEngine_Issue_ZeroPadded(t *testing.T) {
	t.Parallel()
	f := newFixture(t, otp.WithRandom(bytes.NewReader(make([]byte, 64))))

	code := f.issue(t, uuid.New())
	assert.Equal(t, "000000", code)
}

func TestEngine_Issue_DeliveryFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.sender.err = errors.New("smtp down")
	personID := uuid.New()

	_, err := f.engine.Issue(context.Background(), personID, "dispatch@carrier.example")
	require.ErrorIs(t, err, otp.ErrDelivery)

	// the row stays and simply expires unused
	assert.Len(t, f.store.Codes(personID), 1)
}

func TestEngine_Verify(t *testing.T) {
	t.Parallel()

	t.Run("correct code then reuse", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		personID := uuid.New()
		code := f.issue(t, personID)

		require.NoError(t, f.engine.Verify(context.Background(), personID, code))
		assert.True(t, f.store.Codes(personID)[0].Used)

		err := f.engine.Verify(context.Background(), personID, code)
		assert.ErrorIs(t, err, otp.ErrNotFound)
	})

	t.Run("wrong code counts an attempt", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		personID := uuid.New()
		code := f.issue(t, personID)

		err := f.engine.Verify(context.Background(), personID, wrongCode(code))
		require.ErrorIs(t, err, otp.ErrInvalidCode)

		var ae *otp.AttemptsError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, 1, ae.Attempts)
		assert.Equal(t, 4, ae.Remaining())
		assert.NotContains(t, err.Error(), code)
		assert.Equal(t, 1, f.store.Codes(personID)[0].Attempts)
	})

	t.Run("attempt budget saturates", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		personID := uuid.New()
		code := f.issue(t, personID)

		for i := 1; i <= 5; i++ {
			var ae *otp.AttemptsError
			require.ErrorAs(t, f.engine.Verify(context.Background(), personID, wrongCode(code)), &ae)
			assert.Equal(t, i, ae.Attempts)
		}

		err := f.engine.Verify(context.Background(), personID, code)
		assert.ErrorIs(t, err, otp.ErrTooManyAttempts)
		err = f.engine.Verify(context.Background(), personID, wrongCode(code))
		assert.ErrorIs(t, err, otp.ErrTooManyAttempts)
		assert.Equal(t, 5, f.store.Codes(personID)[0].Attempts)
	})

	t.Run("expiry wins over attempts", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		personID := uuid.New()
		code := f.issue(t, personID)

		require.Error(t, f.engine.Verify(context.Background(), personID, wrongCode(code)))
		f.clock.Advance(10 * time.Minute)

		err := f.engine.Verify(context.Background(), personID, code)
		assert.ErrorIs(t, err, otp.ErrExpired)
		err = f.engine.Verify(context.Background(), personID, wrongCode(code))
		assert.ErrorIs(t, err, otp.ErrExpired)
		assert.Equal(t, 1, f.store.Codes(personID)[0].Attempts)
	})

	t.Run("expired after exhausting attempts", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		personID := uuid.New()
		code := f.issue(t, personID)

		for range 5 {
			require.Error(t, f.engine.Verify(context.Background(), personID, wrongCode(code)))
		}
		f.clock.Advance(11 * time.Minute)
		assert.ErrorIs(t, f.engine.Verify(context.Background(), personID, code), otp.ErrExpired)
	})

	t.Run("digest is not accepted as code", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		personID := uuid.New()
		f.issue(t, personID)

		digest := f.store.Codes(personID)[0].CodeDigest
		assert.ErrorIs(t, f.engine.Verify(context.Background(), personID, digest), otp.ErrInvalidCode)
	})

	t.Run("no code", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		assert.ErrorIs(t, f.engine.Verify(context.Background(), uuid.New(), "123456"), otp.ErrNotFound)
	})

	t.Run("empty code", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		assert.ErrorIs(t, f.engine.Verify(context.Background(), uuid.New(), ""), otp.ErrEmptyCode)
	})
}

func TestEngine_Verify_ConcurrentGuessesStayWithinBudget(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	personID := uuid.New()
	code := f.issue(t, personID)

	const guesses = 20
	var read sync.WaitGroup
	read.Add(guesses)
	store := &gatedStore{MemoryStore: f.store, read: &read, release: make(chan struct{})}
	counter := &countingHasher{Hasher: f.hasher}
	engine := otp.NewEngine(store, counter, f.sender, otp.WithClock(f.clock.Now))

	errs := make(chan error, guesses)
	var done sync.WaitGroup
	for range guesses {
		done.Add(1)
		go func() {
			defer done.Done()
			errs <- engine.Verify(context.Background(), personID, wrongCode(code))
		}()
	}
	read.Wait()
	close(store.release)
	done.Wait()
	close(errs)

	var invalid, exhausted int
	seen := map[int]bool{}
	for err := range errs {
		var ae *otp.AttemptsError
		switch {
		case errors.As(err, &ae):
			invalid++
			seen[ae.Attempts] = true
		case errors.Is(err, otp.ErrTooManyAttempts):
			exhausted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 5, invalid)
	assert.Equal(t, guesses-5, exhausted)
	assert.Len(t, seen, 5)
	assert.EqualValues(t, 5, counter.compared.Load())
	assert.Equal(t, 5, f.store.Codes(personID)[0].Attempts)

	assert.ErrorIs(t, f.engine.Verify(context.Background(), personID, code), otp.ErrTooManyAttempts)
}

func TestMemoryStore_IncrementAttempts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := otp.NewMemoryStore()
	id := uuid.New()
	require.NoError(t, store.CreateCode(ctx, otp.Code{ID: id, PersonID: uuid.New(), CodeDigest: "d"}))

	n, err := store.IncrementAttempts(ctx, id, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = store.IncrementAttempts(ctx, id, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = store.IncrementAttempts(ctx, id, 2)
	assert.ErrorIs(t, err, otp.ErrTooManyAttempts)

	require.NoError(t, store.MarkCodeUsed(ctx, id))
	assert.ErrorIs(t, store.MarkCodeUsed(ctx, id), otp.ErrNotFound)
	_, err = store.IncrementAttempts(ctx, id, 5)
	assert.ErrorIs(t, err, otp.ErrNotFound)
	_, err = store.IncrementAttempts(ctx, uuid.New(), 5)
	assert.ErrorIs(t, err, otp.ErrNotFound)
}

func TestEngine_ResendTargetsNewestCode(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	personID := uuid.New()

	first := f.issue(t, personID)
	f.clock.Advance(time.Second)
	second := f.issue(t, personID)

	current, err := f.engine.FindCurrent(context.Background(), personID)
	require.NoError(t, err)
	assert.Equal(t, f.store.Codes(personID)[1].ID, current.ID)

	if first != second {
		assert.ErrorIs(t, f.engine.Verify(context.Background(), personID, first), otp.ErrInvalidCode)
	}
	require.NoError(t, f.engine.Verify(context.Background(), personID, second))

	// the older row is untouched but no longer reachable once it is not the newest
	rows := f.store.Codes(personID)
	assert.False(t, rows[0].Used)
	assert.True(t, rows[1].Used)
}

func TestEngine_WithConfig(t *testing.T) {
	t.Parallel()
	f := newFixture(t, otp.WithConfig(otp.Config{TTL: time.Minute, MaxAttempts: 2}))
	personID := uuid.New()

	code := f.issue(t, personID)
	assert.Equal(t, time.Minute, f.engine.TTL())
	assert.Equal(t, 2, f.engine.MaxAttempts())

	require.Error(t, f.engine.Verify(context.Background(), personID, wrongCode(code)))
	require.Error(t, f.engine.Verify(context.Background(), personID, wrongCode(code)))
	assert.ErrorIs(t, f.engine.Verify(context.Background(), personID, code), otp.ErrTooManyAttempts)
}

func TestReasonOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, otp.ReasonNotFound, otp.ReasonOf(otp.ErrNotFound))
	assert.Equal(t, otp.ReasonExpired, otp.ReasonOf(otp.ErrExpired))
	assert.Equal(t, otp.ReasonTooManyAttempts, otp.ReasonOf(otp.ErrTooManyAttempts))
	assert.Equal(t, otp.ReasonInvalidCode, otp.ReasonOf(&otp.AttemptsError{Attempts: 1, MaxAttempts: 5}))
	assert.Equal(t, otp.ReasonInternal, otp.ReasonOf(errors.New("db down")))
}
