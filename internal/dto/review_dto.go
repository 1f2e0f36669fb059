package dto

import (
	"time"

	"reviewdeck/internal/models"
)

// ReviewResponse is a review row with its author's username joined in.
type ReviewResponse struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Category   string     `json:"category"`
	Rating     int        `json:"rating"`
	ReviewText string     `json:"review_text"`
	ReviewDate time.Time  `json:"review_date"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
	Username   string     `json:"username"`
}

// FromModelToReviewResponse converts a Review model to ReviewResponse DTO
func FromModelToReviewResponse(review *models.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:         review.ID,
		Title:      review.Title,
		Category:   review.Category,
		Rating:     review.Rating,
		ReviewText: review.ReviewText,
		ReviewDate: review.ReviewDate,
		UpdatedAt:  review.UpdatedAt,
		Username:   review.User.Username,
	}
}

// FromModelsToReviewResponses converts a slice of Review models
func FromModelsToReviewResponses(reviews []models.Review) []ReviewResponse {
	responses := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *FromModelToReviewResponse(&reviews[i]))
	}
	return responses
}
