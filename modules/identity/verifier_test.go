package identity

import (
	"encoding/base64"
	"errors"
	"strconv"
	"testing"
	"time"
)

var testKey = []byte("super-secret-signing-key-32bytes")

func testSecret() string {
	return "whsec_" + base64.StdEncoding.EncodeToString(testKey)
}

func newTestVerifier(t *testing.T, now time.Time) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret())
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	v.now = func() time.Time { return now }
	return v
}

func TestNewVerifier(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
		missing bool
	}{
		{"prefixed", testSecret(), false, false},
		{"bare base64", base64.StdEncoding.EncodeToString(testKey), false, false},
		{"empty", "", true, true},
		{"blank", "   ", true, true},
		{"not base64", "whsec_***", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVerifier(tt.secret)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewVerifier() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.missing && !errors.Is(err, ErrMissingSecret) {
				t.Errorf("NewVerifier() error = %v, want ErrMissingSecret", err)
			}
		})
	}
}

func TestVerifier_Verify(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	v := newTestVerifier(t, now)
	body := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	ts := strconv.FormatInt(now.Unix(), 10)
	good := "v1," + v.sign("msg_1", ts, body)

	tests := []struct {
		name    string
		headers Headers
		body    []byte
		wantErr error
	}{
		{"valid", Headers{"msg_1", ts, good}, body, nil},
		{"one of several signatures", Headers{"msg_1", ts, "v1,bm90LWl0 " + good}, body, nil},
		{"only other versions", Headers{"msg_1", ts, "v2," + v.sign("msg_1", ts, body)}, body, ErrInvalidSignature},
		{"tampered body", Headers{"msg_1", ts, good}, []byte(`{"type":"user.deleted"}`), ErrInvalidSignature},
		{"different message id", Headers{"msg_2", ts, good}, body, ErrInvalidSignature},
		{"missing id", Headers{"", ts, good}, body, ErrMissingHeaders},
		{"missing timestamp", Headers{"msg_1", "", good}, body, ErrMissingHeaders},
		{"missing signature", Headers{"msg_1", ts, ""}, body, ErrMissingHeaders},
		{"non-numeric timestamp", Headers{"msg_1", "yesterday", good}, body, ErrInvalidSignature},
		{
			"too old",
			Headers{"msg_1", strconv.FormatInt(now.Add(-6*time.Minute).Unix(), 10), "v1," + v.sign("msg_1", strconv.FormatInt(now.Add(-6*time.Minute).Unix(), 10), body)},
			body, ErrTimestampOutOfRange,
		},
		{
			"too far ahead",
			Headers{"msg_1", strconv.FormatInt(now.Add(6*time.Minute).Unix(), 10), "v1," + v.sign("msg_1", strconv.FormatInt(now.Add(6*time.Minute).Unix(), 10), body)},
			body, ErrTimestampOutOfRange,
		},
		{
			"inside tolerance",
			Headers{"msg_1", strconv.FormatInt(now.Add(-4*time.Minute).Unix(), 10), "v1," + v.sign("msg_1", strconv.FormatInt(now.Add(-4*time.Minute).Unix(), 10), body)},
			body, nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(tt.headers, tt.body)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Verify() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
