package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/jrsteele09/reload-agent-demo/internal/errors"
)

// SignatureHeader carries hex(HMAC-SHA256(secret, body))
const SignatureHeader = "X-Webhook-Signature"

// Verifier checks webhook signatures. With no secret configured every body is
// accepted.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) Verifier {
	return Verifier{secret: []byte(secret)}
}

func (v Verifier) Enabled() bool {
	return len(v.secret) > 0
}

func (v Verifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (v Verifier) Verify(body []byte, signature string) error {
	if !v.Enabled() {
		return nil
	}

	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	got, err := hex.DecodeString(signature)
	if signature == "" || err != nil {
		return errors.ErrInvalidSignature
	}

	want, _ := hex.DecodeString(v.Sign(body))
	if !hmac.Equal(got, want) {
		return errors.ErrInvalidSignature
	}
	return nil
}
