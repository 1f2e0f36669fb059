package handler

import (
	"net/http"
	"strconv"
	"strings"

	"reviewdeck/internal/dto"
	"reviewdeck/internal/middleware"
	"reviewdeck/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterRoutes registers review-related routes
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/my", h.MyReviews)
	router.GET("/title/*title", h.ByTitle)
	router.GET("/:id", h.Get)

	router.POST("", h.Create)
	router.POST("/:id/edit", h.Update)
	router.POST("/:id/delete", h.Delete)
}

// Index lists all reviews, newest first, with optional category/rating
// filters. GET /
func (h *ReviewHandler) Index(c *gin.Context) {
	reviews, err := h.reviewService.ListAll(c.Query("category"), c.Query("rating"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": dto.FromModelsToReviewResponses(reviews)})
}

// Collection returns the one-row-per-title aggregate. GET /collection
func (h *ReviewHandler) Collection(c *gin.Context) {
	entries, err := h.reviewService.Collection()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": entries})
}

// Get returns a single review. GET /reviews/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	review, err := h.reviewService.Get(reviewID)
	if err != nil {
		respondError(c, err)
		return
	}

	sess := middleware.GetSession(c)
	isOwner := sess.IsAuthenticated() && sess.UserID == review.UserID

	c.JSON(http.StatusOK, gin.H{
		"review":   dto.FromModelToReviewResponse(review),
		"is_owner": isOwner,
	})
}

// ByTitle lists every review for one exact title. GET /reviews/title/*title
func (h *ReviewHandler) ByTitle(c *gin.Context) {
	title := strings.TrimPrefix(c.Param("title"), "/")

	reviews, err := h.reviewService.ListByTitle(title)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(reviews) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No reviews found for this title."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":    title,
		"category": reviews[0].Category,
		"reviews":  dto.FromModelsToReviewResponses(reviews),
	})
}

// MyReviews lists the session user's reviews. GET /reviews/my
func (h *ReviewHandler) MyReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListByUser(middleware.GetSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": dto.FromModelsToReviewResponses(reviews)})
}

// Create posts a new review. POST /reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	sess := middleware.GetSession(c)

	reviewID, err := h.reviewService.Create(
		sess,
		c.PostForm("csrf_token"),
		c.PostForm("title"),
		c.PostForm("category"),
		c.PostForm("rating"),
		c.PostForm("review_text"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"review_id": reviewID,
		"message":   "Review posted successfully!",
	})
}

// Update edits an owned review. POST /reviews/:id/edit
func (h *ReviewHandler) Update(c *gin.Context) {
	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	err = h.reviewService.Update(
		middleware.GetSession(c),
		c.PostForm("csrf_token"),
		reviewID,
		c.PostForm("title"),
		c.PostForm("category"),
		c.PostForm("rating"),
		c.PostForm("review_text"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review updated successfully!"})
}

// Delete removes an owned review. POST /reviews/:id/delete
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	err = h.reviewService.Delete(middleware.GetSession(c), c.PostForm("csrf_token"), reviewID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully."})
}
