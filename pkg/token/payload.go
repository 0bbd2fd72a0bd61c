package token

import (
	"time"

	"github.com/google/uuid"
)

// Audiences keep the two codecs from accepting each other's tokens.
const (
	AudiencePending = "pending_2fa"
	AudienceSession = "session"
)

// Default lifetimes.
const (
	PendingTTL = 10 * time.Minute
	SessionTTL = 9 * time.Hour
)

// Pending proves the password was checked and a second factor is outstanding.
type Pending struct {
	PersonID uuid.UUID `json:"person_id"`
}

// Session is the authenticated identity handed to callers after login.
type Session struct {
	PersonID uuid.UUID `json:"person_id"`
	AccessID uuid.UUID `json:"access_id"`
	Email    string    `json:"email"`
	ClientIP string    `json:"client_ip"`
	Role     string    `json:"role"`
}
