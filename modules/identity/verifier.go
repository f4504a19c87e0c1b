package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance is how far a webhook timestamp may drift from the local clock.
const DefaultTolerance = 5 * time.Minute

const secretPrefix = "whsec_"

var (
	// ErrMissingSecret is returned when no webhook signing secret is configured.
	ErrMissingSecret = errors.New("webhook secret not configured")
	// ErrMissingHeaders is returned when a verification header is absent.
	ErrMissingHeaders = errors.New("missing verification headers")
	// ErrInvalidSignature is returned when no signature matches the payload.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrTimestampOutOfRange is returned for deliveries older or newer than the tolerance.
	ErrTimestampOutOfRange = errors.New("webhook timestamp outside tolerance")
)

// Headers carries the three signature headers of a delivery.
type Headers struct {
	ID        string
	Timestamp string
	Signature string
}

// Verifier checks identity-provider webhook signatures: HMAC-SHA256 over
// "id.timestamp.body" keyed with the decoded secret, base64 encoded, listed
// as space separated "v1,<sig>" entries.
type Verifier struct {
	key       []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewVerifier decodes the base64 signing secret, with or without its whsec_ prefix.
func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrMissingSecret
	}
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to decode webhook secret: %w", err)
	}
	return &Verifier{key: key, tolerance: DefaultTolerance, now: time.Now}, nil
}

// Verify authenticates body against the headers.
func (v *Verifier) Verify(h Headers, body []byte) error {
	if h.ID == "" || h.Timestamp == "" || h.Signature == "" {
		return ErrMissingHeaders
	}

	sec, err := strconv.ParseInt(h.Timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp %q", ErrInvalidSignature, h.Timestamp)
	}
	ts := time.Unix(sec, 0)
	now := v.now()
	if ts.Before(now.Add(-v.tolerance)) || ts.After(now.Add(v.tolerance)) {
		return ErrTimestampOutOfRange
	}

	expected := []byte(v.sign(h.ID, h.Timestamp, body))
	for _, entry := range strings.Fields(h.Signature) {
		version, sig, ok := strings.Cut(entry, ",")
		if !ok || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), expected) {
			return nil
		}
	}
	return ErrInvalidSignature
}

func (v *Verifier) sign(id, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(id))
	mac.Write([]byte{'.'})
	mac.Write([]byte(timestamp))
	mac.Write([]byte{'.'})
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
