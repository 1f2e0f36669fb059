package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"reviewdeck/internal/models"
	"reviewdeck/internal/repository"
	"reviewdeck/internal/session"
	"reviewdeck/internal/validation"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const collectionCacheKey = "collection:view"

type ReviewService interface {
	Create(sess *session.Session, csrfToken, title, category, rating, text string) (int64, error)
	Update(sess *session.Session, csrfToken string, reviewID int64, title, category, rating, text string) error
	Delete(sess *session.Session, csrfToken string, reviewID int64) error
	Get(reviewID int64) (*models.Review, error)
	ListAll(category, rating string) ([]models.Review, error)
	ListByUser(sess *session.Session) ([]models.Review, error)
	ListByTitle(title string) ([]models.Review, error)
	Collection() ([]repository.CollectionEntry, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	guard      *Guard
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     *slog.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	guard *Guard,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger *slog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		guard:      guard,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// validateReviewInput runs the field validators in their fixed order (title,
// category, rating, text), short-circuiting on the first failure. Rating
// arrives as the raw form string and is parsed here.
func validateReviewInput(title, category, ratingStr, text string) (int, error) {
	if err := validation.Title(title); err != nil {
		return 0, err
	}
	if err := validation.Category(category); err != nil {
		return 0, err
	}
	rating, err := validation.Rating(ratingStr)
	if err != nil {
		return 0, err
	}
	if err := validation.ReviewText(text); err != nil {
		return 0, err
	}
	return rating, nil
}

// Create posts a new review for the session's user. The anti-forgery token
// and identity are checked before validation, and validation before any
// write; a rejected request has no side effects.
func (s *reviewService) Create(sess *session.Session, csrfToken, title, category, rating, text string) (int64, error) {
	if err := s.guard.CheckCSRF(sess, csrfToken); err != nil {
		return 0, err
	}
	userID, err := s.guard.RequireUser(sess)
	if err != nil {
		return 0, err
	}

	ratingValue, err := validateReviewInput(title, category, rating, text)
	if err != nil {
		return 0, err
	}

	review := &models.Review{
		UserID:     userID,
		Title:      strings.TrimSpace(title),
		ReviewText: strings.TrimSpace(text),
		Rating:     ratingValue,
		Category:   category,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return 0, err
	}

	s.invalidateCollection()
	return review.ID, nil
}

// Update edits an existing review owned by the session's user.
func (s *reviewService) Update(sess *session.Session, csrfToken string, reviewID int64, title, category, rating, text string) error {
	if _, err := s.guard.AuthorizeMutation(sess, csrfToken, reviewID); err != nil {
		return err
	}

	ratingValue, err := validateReviewInput(title, category, rating, text)
	if err != nil {
		return err
	}

	matched, err := s.reviewRepo.Update(reviewID, strings.TrimSpace(title), strings.TrimSpace(text), ratingValue, category)
	if err != nil {
		return err
	}
	if !matched {
		// Deleted between the ownership check and the write.
		return ErrReviewNotFound
	}

	s.invalidateCollection()
	return nil
}

// Delete removes an existing review owned by the session's user.
func (s *reviewService) Delete(sess *session.Session, csrfToken string, reviewID int64) error {
	if _, err := s.guard.AuthorizeMutation(sess, csrfToken, reviewID); err != nil {
		return err
	}

	matched, err := s.reviewRepo.Delete(reviewID)
	if err != nil {
		return err
	}
	if !matched {
		return ErrReviewNotFound
	}

	s.invalidateCollection()
	return nil
}

func (s *reviewService) Get(reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// ListAll returns reviews newest first. Filter values come straight from the
// query string; unrecognized categories and out-of-range ratings are ignored
// rather than rejected.
func (s *reviewService) ListAll(category, rating string) ([]models.Review, error) {
	var filter repository.ListFilter
	if category == models.CategoryMovie || category == models.CategoryGame {
		filter.Category = category
	}
	if rating != "" {
		if value, err := validation.Rating(rating); err == nil {
			filter.Rating = value
		}
	}
	return s.reviewRepo.ListAll(filter)
}

func (s *reviewService) ListByUser(sess *session.Session) ([]models.Review, error) {
	userID, err := s.guard.RequireUser(sess)
	if err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByUser(userID)
}

func (s *reviewService) ListByTitle(title string) ([]models.Review, error) {
	return s.reviewRepo.ListByTitle(title)
}

// Collection returns the one-row-per-title aggregate, served from the redis
// cache when warm.
func (s *reviewService) Collection() ([]repository.CollectionEntry, error) {
	ctx := context.Background()

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, collectionCacheKey).Result(); err == nil {
			var entries []repository.CollectionEntry
			if err := json.Unmarshal([]byte(raw), &entries); err == nil {
				return entries, nil
			}
		}
	}

	entries, err := s.reviewRepo.CollectionView()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, collectionCacheKey, raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("collection cache write failed", "error", err)
			}
		}
	}
	return entries, nil
}

// invalidateCollection drops the cached aggregate after any review mutation.
// The cache is advisory; a failed invalidation only shortens freshness to the
// TTL, so it is logged and not surfaced.
func (s *reviewService) invalidateCollection() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(context.Background(), collectionCacheKey).Err(); err != nil {
		s.logger.Warn("collection cache invalidation failed", "error", err)
	}
}
