package service

import (
	"errors"

	"reviewdeck/internal/auth"
	"reviewdeck/internal/repository"
	"reviewdeck/internal/session"

	"gorm.io/gorm"
)

// Guard authenticates a request's session and authorizes mutation of a
// specific review. Checks run in a fixed order: anti-forgery token first,
// then identity, then existence, then ownership. A CSRF failure aborts
// before any repository read.
type Guard struct {
	reviews repository.ReviewRepository
}

func NewGuard(reviews repository.ReviewRepository) *Guard {
	return &Guard{reviews: reviews}
}

// CheckCSRF rejects a mutation whose submitted token does not match the
// session-bound one.
func (g *Guard) CheckCSRF(sess *session.Session, submitted string) error {
	if !auth.ValidateCSRFToken(sess, submitted) {
		return ErrCSRF
	}
	return nil
}

// RequireUser returns the session's user id, or ErrUnauthorized for an
// anonymous session.
func (g *Guard) RequireUser(sess *session.Session) (string, error) {
	if !sess.IsAuthenticated() {
		return "", ErrUnauthorized
	}
	return sess.UserID, nil
}

// AuthorizeMutation runs the full pre-mutation check for an existing review
// and returns the acting user's id on success.
func (g *Guard) AuthorizeMutation(sess *session.Session, submitted string, reviewID int64) (string, error) {
	if err := g.CheckCSRF(sess, submitted); err != nil {
		return "", err
	}
	userID, err := g.RequireUser(sess)
	if err != nil {
		return "", err
	}

	owned, err := g.reviews.OwnedBy(reviewID, userID)
	if err != nil {
		return "", err
	}
	if owned {
		return userID, nil
	}

	// OwnedBy reports false for both "absent" and "someone else's"; the
	// request layer needs to tell a 404 from a 403.
	if _, err := g.reviews.GetByID(reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrReviewNotFound
		}
		return "", err
	}
	return "", ErrForbidden
}
