package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the session cookie the middleware reads and sets.
const CookieName = "reviewdeck_session"

var (
	ErrInvalidCookie = errors.New("invalid session cookie")
)

// CookieCodec signs session ids into tamper-evident cookie values. The
// payload is only the session id plus expiry; all real state stays in the
// store.
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewCookieCodec(secret string, ttl time.Duration) *CookieCodec {
	return &CookieCodec{secret: []byte(secret), ttl: ttl}
}

// Encode signs the session id into a cookie value.
func (c *CookieCodec) Encode(sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": time.Now().Add(c.ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies the cookie signature and expiry and returns the session id.
func (c *CookieCodec) Decode(value string) (string, error) {
	token, err := jwt.Parse(value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCookie
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCookie
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrInvalidCookie
	}
	return sid, nil
}

// TTLSeconds is the cookie Max-Age matching the signed expiry.
func (c *CookieCodec) TTLSeconds() int {
	return int(c.ttl / time.Second)
}
