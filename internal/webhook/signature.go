package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/Thidomsilva/testcheckout/internal/domain"
)

// Verifier checks that an inbound webhook body was produced by the gateway.
// The shared secret is injected at construction; verification is pure.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Configured reports whether a shared secret is present. An unconfigured
// verifier must never let a request through to business logic.
func (v *Verifier) Configured() bool {
	return v.secret != ""
}

// Verify computes HMAC-SHA256 over the raw, unparsed body and compares the
// hex encoding against the provided signature in constant time.
func (v *Verifier) Verify(rawBody []byte, signature string) error {
	if signature == "" {
		return domain.ErrSignatureMissing
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domain.ErrSignatureMismatch
	}
	return nil
}

// Sign produces the hex HMAC-SHA256 signature for a body. Used by the mock
// gateway and by tests to forge valid deliveries.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
