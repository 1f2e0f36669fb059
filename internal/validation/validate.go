package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Error is a recoverable input failure carrying the user-facing message for
// the first violated constraint. Callers short-circuit on the first Error, so
// the order validators run in is the order users see failures in.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Username checks the 3-50 character [A-Za-z0-9_] rule. Lengths here and
// below count characters, not bytes, so multi-byte input is measured the way
// users count it.
func Username(username string) error {
	if username == "" {
		return newError("username", "Username is required")
	}
	length := utf8.RuneCountInString(username)
	if length < 3 {
		return newError("username", "Username must be at least 3 characters")
	}
	if length > 50 {
		return newError("username", "Username must be at most 50 characters")
	}
	if !usernamePattern.MatchString(username) {
		return newError("username", "Username can only contain letters, numbers, and underscores")
	}
	return nil
}

// Email checks basic address syntax and the 255 character cap.
func Email(email string) error {
	if email == "" {
		return newError("email", "Email is required")
	}
	if !emailPattern.MatchString(email) {
		return newError("email", "Please enter a valid email address")
	}
	if utf8.RuneCountInString(email) > 255 {
		return newError("email", "Email is too long")
	}
	return nil
}

// Password checks length only; complexity messaging belongs to the UI.
func Password(password string) error {
	if password == "" {
		return newError("password", "Password is required")
	}
	length := utf8.RuneCountInString(password)
	if length < 8 {
		return newError("password", "Password must be at least 8 characters")
	}
	if length > 128 {
		return newError("password", "Password is too long")
	}
	return nil
}

// Title checks the 1-200 character rule on the trimmed value.
func Title(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return newError("title", "Title is required")
	}
	if utf8.RuneCountInString(title) > 200 {
		return newError("title", "Title must be at most 200 characters")
	}
	return nil
}

// Category accepts exactly "movie" or "game".
func Category(category string) error {
	if category == "" {
		return newError("category", "Category is required")
	}
	if category != "movie" && category != "game" {
		return newError("category", "Category must be 'movie' or 'game'")
	}
	return nil
}

// Rating parses the submitted form value and checks the 1-5 range. The
// request layer hands ratings through as strings.
func Rating(rating string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(rating))
	if err != nil {
		return 0, newError("rating", "Rating must be a number")
	}
	if value < 1 || value > 5 {
		return 0, newError("rating", "Rating must be between 1 and 5")
	}
	return value, nil
}

// ReviewText checks the 10-5000 character rule on the trimmed value.
func ReviewText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return newError("review_text", "Review text is required")
	}
	length := utf8.RuneCountInString(text)
	if length < 10 {
		return newError("review_text", "Review must be at least 10 characters")
	}
	if length > 5000 {
		return newError("review_text", "Review must be at most 5000 characters")
	}
	return nil
}
