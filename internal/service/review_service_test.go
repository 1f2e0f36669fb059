package service

import (
	"io"
	"log/slog"
	"testing"

	"reviewdeck/internal/auth"
	"reviewdeck/internal/models"
	"reviewdeck/internal/repository"
	"reviewdeck/internal/session"
	"reviewdeck/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockReviewRepository mocks the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(id int64) (*models.Review, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListAll(filter repository.ListFilter) ([]models.Review, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByUser(userID string) ([]models.Review, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByTitle(title string) ([]models.Review, error) {
	args := m.Called(title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) Update(id int64, title, text string, rating int, category string) (bool, error) {
	args := m.Called(id, title, text, rating, category)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) Delete(id int64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) OwnedBy(id int64, userID string) (bool, error) {
	args := m.Called(id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) CollectionView() ([]repository.CollectionEntry, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CollectionEntry), args.Error(1)
}

func newTestReviewService(repo *MockReviewRepository) ReviewService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewReviewService(repo, NewGuard(repo), nil, 0, logger)
}

// authedSession returns a logged-in session with an issued token.
func authedSession(t *testing.T, userID string) (*session.Session, string) {
	t.Helper()
	sess := session.New()
	sess.UserID = userID
	sess.Username = "alice"
	token, err := auth.IssueCSRFToken(sess)
	require.NoError(t, err)
	return sess, token
}

func TestCreateReview_Success(t *testing.T) {
	sess, token := authedSession(t, "user-1")

	mockRepo := new(MockReviewRepository)
	mockRepo.On("Create", mock.AnythingOfType("*models.Review")).Run(func(args mock.Arguments) {
		review := args.Get(0).(*models.Review)
		review.ID = 42
		assert.Equal(t, "user-1", review.UserID)
		assert.Equal(t, "Game A", review.Title)
		assert.Equal(t, "Pretty good game overall.", review.ReviewText)
		assert.Equal(t, 4, review.Rating)
		assert.Equal(t, "game", review.Category)
	}).Return(nil)

	reviewID, err := newTestReviewService(mockRepo).Create(sess, token, "Game A", "game", "4", "Pretty good game overall.")
	require.NoError(t, err)
	assert.Equal(t, int64(42), reviewID)

	mockRepo.AssertExpectations(t)
}

func TestCreateReview_CSRFRejected(t *testing.T) {
	sess, _ := authedSession(t, "user-1")

	mockRepo := new(MockReviewRepository)
	svc := newTestReviewService(mockRepo)

	_, err := svc.Create(sess, "wrong-token", "Game A", "game", "4", "Pretty good game overall.")
	assert.ErrorIs(t, err, ErrCSRF)

	_, err = svc.Create(sess, "", "Game A", "game", "4", "Pretty good game overall.")
	assert.ErrorIs(t, err, ErrCSRF)

	// A rejected mutation never touches the repository.
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateReview_Anonymous(t *testing.T) {
	sess := session.New()
	token, err := auth.IssueCSRFToken(sess)
	require.NoError(t, err)

	mockRepo := new(MockReviewRepository)
	_, err = newTestReviewService(mockRepo).Create(sess, token, "Game A", "game", "4", "Pretty good game overall.")
	assert.ErrorIs(t, err, ErrUnauthorized)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateReview_ValidationOrder(t *testing.T) {
	sess, token := authedSession(t, "user-1")
	mockRepo := new(MockReviewRepository)
	svc := newTestReviewService(mockRepo)

	var validationErr *validation.Error

	// Title first, even when every later field is also invalid.
	_, err := svc.Create(sess, token, "", "book", "9", "short")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Title is required", validationErr.Message)

	// Then category.
	_, err = svc.Create(sess, token, "Game A", "book", "9", "short")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Category must be 'movie' or 'game'", validationErr.Message)

	// Then rating.
	_, err = svc.Create(sess, token, "Game A", "game", "6", "short")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Rating must be between 1 and 5", validationErr.Message)

	// Then review text.
	_, err = svc.Create(sess, token, "Game A", "game", "4", "short")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Review must be at least 10 characters", validationErr.Message)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUpdateReview_Success(t *testing.T) {
	sess, token := authedSession(t, "user-1")

	mockRepo := new(MockReviewRepository)
	mockRepo.On("OwnedBy", int64(7), "user-1").Return(true, nil)
	mockRepo.On("Update", int64(7), "Game A", "Even better on a second playthrough.", 5, "game").Return(true, nil)

	err := newTestReviewService(mockRepo).Update(sess, token, 7, "Game A", "game", "5", "Even better on a second playthrough.")
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUpdateReview_Forbidden(t *testing.T) {
	sess, token := authedSession(t, "user-2")

	mockRepo := new(MockReviewRepository)
	mockRepo.On("OwnedBy", int64(7), "user-2").Return(false, nil)
	mockRepo.On("GetByID", int64(7)).Return(&models.Review{ID: 7, UserID: "user-1"}, nil)

	err := newTestReviewService(mockRepo).Update(sess, token, 7, "Game A", "game", "5", "Trying to edit someone else's review.")
	assert.ErrorIs(t, err, ErrForbidden)

	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateReview_NotFound(t *testing.T) {
	sess, token := authedSession(t, "user-1")

	mockRepo := new(MockReviewRepository)
	mockRepo.On("OwnedBy", int64(99), "user-1").Return(false, nil)
	mockRepo.On("GetByID", int64(99)).Return(nil, gorm.ErrRecordNotFound)

	err := newTestReviewService(mockRepo).Update(sess, token, 99, "Game A", "game", "5", "Editing a review that is gone.")
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestUpdateReview_RacedDelete(t *testing.T) {
	// Ownership passed but the row vanished before the write; the loser
	// reports "no row matched" rather than corrupting state.
	sess, token := authedSession(t, "user-1")

	mockRepo := new(MockReviewRepository)
	mockRepo.On("OwnedBy", int64(7), "user-1").Return(true, nil)
	mockRepo.On("Update", int64(7), "Game A", "Editing during a concurrent delete.", 5, "game").Return(false, nil)

	err := newTestReviewService(mockRepo).Update(sess, token, 7, "Game A", "game", "5", "Editing during a concurrent delete.")
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestDeleteReview_Success(t *testing.T) {
	sess, token := authedSession(t, "user-1")

	mockRepo := new(MockReviewRepository)
	mockRepo.On("OwnedBy", int64(7), "user-1").Return(true, nil)
	mockRepo.On("Delete", int64(7)).Return(true, nil)

	err := newTestReviewService(mockRepo).Delete(sess, token, 7)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestDeleteReview_AlreadyGone(t *testing.T) {
	sess, token := authedSession(t, "user-1")

	mockRepo := new(MockReviewRepository)
	mockRepo.On("OwnedBy", int64(7), "user-1").Return(false, nil)
	mockRepo.On("GetByID", int64(7)).Return(nil, gorm.ErrRecordNotFound)

	err := newTestReviewService(mockRepo).Delete(sess, token, 7)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	mockRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestGetReview_NotFound(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	mockRepo.On("GetByID", int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := newTestReviewService(mockRepo).Get(99)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestListAll_FilterSanitization(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	svc := newTestReviewService(mockRepo)

	// Valid filters pass through conjunctively.
	mockRepo.On("ListAll", repository.ListFilter{Category: "game", Rating: 4}).Return([]models.Review{}, nil).Once()
	_, err := svc.ListAll("game", "4")
	require.NoError(t, err)

	// Unknown category and out-of-range rating are ignored, not rejected.
	mockRepo.On("ListAll", repository.ListFilter{}).Return([]models.Review{}, nil).Once()
	_, err = svc.ListAll("book", "9")
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestListByUser_RequiresAuth(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	_, err := newTestReviewService(mockRepo).ListByUser(session.New())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCollection_NoCache(t *testing.T) {
	entries := []repository.CollectionEntry{{Title: "Game A", ReviewCount: 2}}

	mockRepo := new(MockReviewRepository)
	mockRepo.On("CollectionView").Return(entries, nil)

	got, err := newTestReviewService(mockRepo).Collection()
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
