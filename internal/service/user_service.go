package service

import (
	"errors"
	"strings"

	"reviewdeck/internal/auth"
	"reviewdeck/internal/models"
	"reviewdeck/internal/repository"
	"reviewdeck/internal/validation"
)

// dummyHash is compared against when a login names an unknown user, so the
// miss takes as long as a real bcrypt check and usernames cannot be
// enumerated through response timing.
const dummyHash = "$2a$12$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e"

type UserService interface {
	Register(username, email, password, confirmPassword string) (*models.User, error)
	Authenticate(username, password string) (*models.User, error)
	FindByID(id string) (*models.User, error)
}

type userService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

func NewUserService(userRepo repository.UserRepository, bcryptCost int) UserService {
	return &userService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

// Register validates and creates a new user. Validators run in a fixed order
// (username, email, password, then the confirmation) and the first failure
// wins, so the user-facing error precedence is deterministic.
func (s *userService) Register(username, email, password, confirmPassword string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validation.Username(username); err != nil {
		return nil, err
	}
	if err := validation.Email(email); err != nil {
		return nil, err
	}
	if err := validation.Password(password); err != nil {
		return nil, err
	}
	if password != confirmPassword {
		return nil, &validation.Error{Field: "confirm_password", Message: "Passwords do not match."}
	}

	// Check if username exists
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrNameInUse
	}

	// Check if email exists
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailInUse
	}

	hashedPassword, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
	}

	if err := s.userRepo.Create(user); err != nil {
		// Two registrations racing past the pre-checks resolve at the unique
		// constraint; keep the per-field outcome.
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrNameInUse
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	return user, nil
}

// Authenticate verifies a username/password pair. Unknown user and wrong
// password are deliberately indistinguishable to the caller.
func (s *userService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		// Burn a compare so the miss costs the same as a real check.
		auth.VerifyPassword(dummyHash, password)
		return nil, ErrInvalidCredentials
	}

	if !auth.VerifyPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	// The hash never travels past this boundary.
	user.Password = ""
	return user, nil
}

func (s *userService) FindByID(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}
