package dto

import "time"

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type UpdateProfileInput struct {
	UserID string
	Name   string
	Email  string
}

type DeleteAccountInput struct {
	UserID    string
	Password  string
	TokenID   string
	ExpiresAt time.Time
}

type AdminUpdateUserInput struct {
	ID    string
	Role  string
	Name  *string
	Email *string
}
