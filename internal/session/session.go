// Package session persists HTTP session state keyed by a random session id.
// Two stores exist: an in-memory default and a database table used
// on-premises. A missing or expired session reads as (nil, nil), never as an
// error; ErrUnavailable means the backing store cannot be reached and the
// caller must answer "authentication temporarily unavailable", not
// "unauthenticated".
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"
)

var ErrUnavailable = errors.New("session store unavailable")

// Data is the serialized session payload.
type Data struct {
	UserID          string     `json:"userId,omitempty"`
	Email           string     `json:"email,omitempty"`
	IsAuthenticated bool       `json:"isAuthenticated"`
	AuthenticatedAt *time.Time `json:"authenticatedAt,omitempty"`
	SAMLRequestID   string     `json:"samlRequestId,omitempty"`
	ReturnTo        string     `json:"returnTo,omitempty"`
}

type Store interface {
	// Get returns (nil, nil) for a missing or expired session id.
	Get(ctx context.Context, sid string) (*Data, error)
	// Set upserts the payload and recomputes expiry from ttl.
	Set(ctx context.Context, sid string, data *Data, ttl time.Duration) error
	Destroy(ctx context.Context, sid string) error
	// Touch extends expiry without rewriting the payload.
	Touch(ctx context.Context, sid string, ttl time.Duration) error
	// Len counts live (unexpired) sessions.
	Len(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
	// DeleteExpired reclaims at most limit dead rows, reporting how many went.
	DeleteExpired(ctx context.Context, limit int) (int64, error)
}

// NewID returns a 128-bit random session identifier.
func NewID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

func encode(d *Data) (string, error) {
	b, err := json.Marshal(d)
	return string(b), err
}

func decode(raw string) (*Data, error) {
	var d Data
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, err
	}
	return &d, nil
}
