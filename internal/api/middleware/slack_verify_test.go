package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + timestamp + ":"))
	mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySlackSignature(t *testing.T) {
	secret := "8f742231b10e8888abcd99yyyzzz85a5"
	body := []byte("payload=%7B%22type%22%3A%22block_actions%22%7D")
	now := time.Unix(1767200000, 0)
	timestamp := fmt.Sprintf("%d", now.Unix())

	tests := []struct {
		name      string
		timestamp string
		signature string
		at        time.Time
		want      bool
	}{
		{
			name:      "valid signature",
			timestamp: timestamp,
			signature: sign(secret, timestamp, body),
			at:        now,
			want:      true,
		},
		{
			name:      "wrong secret",
			timestamp: timestamp,
			signature: sign("other-secret", timestamp, body),
			at:        now,
			want:      false,
		},
		{
			name:      "tampered body",
			timestamp: timestamp,
			signature: sign(secret, timestamp, []byte("payload=evil")),
			at:        now,
			want:      false,
		},
		{
			name:      "stale timestamp",
			timestamp: timestamp,
			signature: sign(secret, timestamp, body),
			at:        now.Add(10 * time.Minute),
			want:      false,
		},
		{
			name:      "future timestamp",
			timestamp: timestamp,
			signature: sign(secret, timestamp, body),
			at:        now.Add(-10 * time.Minute),
			want:      false,
		},
		{
			name:      "missing signature",
			timestamp: timestamp,
			signature: "",
			at:        now,
			want:      false,
		},
		{
			name:      "garbage timestamp",
			timestamp: "not-a-number",
			signature: sign(secret, "not-a-number", body),
			at:        now,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := verifySlackSignature(secret, tt.timestamp, tt.signature, body, tt.at)
			assert.Equal(t, tt.want, got)
		})
	}
}
