package remote

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"
)

var ErrAuth = errors.New("invalid credentials")

// DefaultSessionTTL bounds sessions issued by Memory.
const DefaultSessionTTL = 24 * time.Hour

type Credentials struct {
	Username string
	Password string
}

// Match compares in constant time.
func (c Credentials) Match(other Credentials) bool {
	u := subtle.ConstantTimeCompare([]byte(c.Username), []byte(other.Username))
	p := subtle.ConstantTimeCompare([]byte(c.Password), []byte(other.Password))
	return u&p == 1 && c.Username != ""
}

type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Authenticator guards admin operations (puzzle upload, score moderation).
// Implementations return ErrAuth, possibly wrapped, for rejected credentials.
type Authenticator interface {
	Verify(ctx context.Context, c Credentials) (Session, error)
}

var (
	_ Authenticator = (*HTTPClient)(nil)
	_ Authenticator = (*Memory)(nil)
)

func newToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
