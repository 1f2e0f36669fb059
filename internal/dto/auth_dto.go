package dto

// Data Transfer Objects for authentication responses. Inbound values arrive
// as form fields and are passed through as strings; the core validates them.

// AuthResponse: payload after successful login
type AuthResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// RegisterResponse: payload after successful registration
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CSRFResponse: the session's anti-forgery token for form rendering
type CSRFResponse struct {
	CSRFToken string `json:"csrf_token"`
}
