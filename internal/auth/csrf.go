package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"

	"reviewdeck/internal/session"
)

// csrfTokenBytes is the entropy of an anti-forgery token: 32 random bytes,
// hex encoded to a fixed 64 character string.
const csrfTokenBytes = 32

// IssueCSRFToken returns the session's anti-forgery token, generating and
// binding one on first use. Issuing is idempotent within a session; the token
// is never rotated on read. The caller persists the session after a new token
// is bound.
func IssueCSRFToken(sess *session.Session) (string, error) {
	if sess.CSRFToken != "" {
		return sess.CSRFToken, nil
	}

	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	sess.CSRFToken = hex.EncodeToString(buf)
	return sess.CSRFToken, nil
}

// ValidateCSRFToken checks a submitted token against the session-bound value
// in constant time. False when the session never issued a token or the
// submission is empty. No token material ever appears in errors or logs.
func ValidateCSRFToken(sess *session.Session, submitted string) bool {
	if sess == nil || sess.CSRFToken == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sess.CSRFToken), []byte(submitted)) == 1
}
