package repository

import (
	"errors"
	"time"

	"reviewdeck/internal/models"

	"gorm.io/gorm"
)

// ListFilter narrows ListAll. Zero values mean "no predicate"; when both are
// set the predicates are conjunctive.
type ListFilter struct {
	Category string
	Rating   int
}

type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id int64) (*models.Review, error)
	ListAll(filter ListFilter) ([]models.Review, error)
	ListByUser(userID string) ([]models.Review, error)
	ListByTitle(title string) ([]models.Review, error)
	Update(id int64, title, text string, rating int, category string) (bool, error)
	Delete(id int64) (bool, error)
	OwnedBy(id int64, userID string) (bool, error)
	CollectionView() ([]CollectionEntry, error)
}

type reviewRepository struct {
	db *gorm.DB

	// canonicalRank orders the collection view; position in the configured
	// title list, unlisted titles sort after every listed one.
	canonicalRank map[string]int
}

func NewReviewRepository(db *gorm.DB, canonicalTitles []string) ReviewRepository {
	rank := make(map[string]int, len(canonicalTitles))
	for i, title := range canonicalTitles {
		rank[title] = i
	}
	return &reviewRepository{db: db, canonicalRank: rank}
}

// Create persists a new review, stamping the review date. UpdatedAt stays nil
// until the first edit.
func (r *reviewRepository) Create(review *models.Review) error {
	if review.ReviewDate.IsZero() {
		review.ReviewDate = time.Now().UTC()
	}
	return r.db.Create(review).Error
}

// GetByID retrieves a review with its author loaded.
func (r *reviewRepository) GetByID(id int64) (*models.Review, error) {
	var review models.Review
	if err := r.db.Preload("User").First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListAll retrieves reviews newest first, optionally filtered by category
// and/or rating.
func (r *reviewRepository) ListAll(filter ListFilter) ([]models.Review, error) {
	var reviews []models.Review

	query := r.db.Preload("User").Order("review_date DESC, id DESC")
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Rating != 0 {
		query = query.Where("rating = ?", filter.Rating)
	}

	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) ListByUser(userID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("user_id = ?", userID).
		Preload("User").
		Order("review_date DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListByTitle retrieves all reviews for one exact title, newest first. An
// unknown title yields an empty slice, not an error.
func (r *reviewRepository) ListByTitle(title string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("title = ?", title).
		Preload("User").
		Order("review_date DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// Update replaces the mutable fields and refreshes updated_at in a single
// statement. Returns false when no row matched, so a concurrent delete makes
// the losing update report a miss instead of resurrecting the row.
func (r *reviewRepository) Update(id int64, title, text string, rating int, category string) (bool, error) {
	result := r.db.Model(&models.Review{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":       title,
		"review_text": text,
		"rating":      rating,
		"category":    category,
		"updated_at":  time.Now().UTC(),
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a review. Returns false when no row matched; a second
// delete on the same id is a no-op that reports false.
func (r *reviewRepository) Delete(id int64) (bool, error) {
	result := r.db.Delete(&models.Review{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// OwnedBy reports whether the review exists and belongs to the given user.
// An absent review is simply not owned.
func (r *reviewRepository) OwnedBy(id int64, userID string) (bool, error) {
	var review models.Review
	err := r.db.Select("user_id").First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return review.UserID == userID, nil
}

// CollectionView aggregates every review into one entry per distinct title.
func (r *reviewRepository) CollectionView() ([]CollectionEntry, error) {
	reviews, err := r.ListAll(ListFilter{})
	if err != nil {
		return nil, err
	}
	return aggregateCollection(reviews, r.canonicalRank), nil
}
