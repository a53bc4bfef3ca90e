// Package validation provides functionality for validating webhook signatures to verify request authenticity.
package validation

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/go-github/v84/github"
)

// SignaturePrefix is the algorithm prefix carried by the signature header value.
const SignaturePrefix = "sha256="

// SignatureHeader is the lower-cased name of the header carrying the HMAC-SHA256 signature.
var SignatureHeader = strings.ToLower(github.SHA256SignatureHeader)

var signaturePattern = regexp.MustCompile(`^sha256=([0-9a-fA-F]{64})$`)

// SignatureFormatError reports a signature header that does not match the `sha256=<hex-digest>` syntax.
// It signals a malformed request rather than a rejected one.
type SignatureFormatError struct {
	Value string
}

func (e *SignatureFormatError) Error() string {
	return fmt.Sprintf("malformed signature header: expected %s<hex-digest>, got %q", SignaturePrefix, e.Value)
}

// WebhookSecret represents a secret used to validate webhook signatures for verifying request authenticity.
// A nil *WebhookSecret means no secret is configured; an empty secret is a valid key.
type WebhookSecret []byte

// NewWebhookSecret returns a WebhookSecret for secret, or nil when secret is nil.
func NewWebhookSecret(secret *string) *WebhookSecret {
	if secret == nil {
		return nil
	}
	s := WebhookSecret(*secret)
	return &s
}

// Configured reports whether a secret is present.
func (s *WebhookSecret) Configured() bool {
	return s != nil
}

// Sign returns the signature header value for body.
func (s *WebhookSecret) Sign(body []byte) string {
	return SignaturePrefix + s.digest(body)
}

// Verify checks body against the signature header value.
//
// With no secret configured every request verifies. With a secret but no header the result is false.
// A header that does not match `sha256=<64 hex>` yields a *SignatureFormatError.
// The digest comparison is constant-time and case-sensitive against the lower-case hex digest.
func (s *WebhookSecret) Verify(body []byte, header *string) (bool, error) {
	if s == nil {
		return true, nil
	}
	if header == nil {
		return false, nil
	}
	m := signaturePattern.FindStringSubmatch(*header)
	if m == nil {
		return false, &SignatureFormatError{Value: *header}
	}
	expected := s.digest(body)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(m[1])) == 1, nil
}

func (s *WebhookSecret) digest(body []byte) string {
	mac := hmac.New(sha256.New, []byte(*s))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

