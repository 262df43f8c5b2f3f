package service

import (
	"io"
	"strings"
)

type RegisterRequest struct {
	FirstName       string
	Surname         string
	Email           string
	Password        string
	PasswordConfirm string
	IsAdmin         bool
}

// UpdateUserRequest leaves the password unchanged when Password is empty.
// IsAdmin is only honoured for admin callers. CurrentPassword is required
// when callers update their own account.
type UpdateUserRequest struct {
	UserID          string
	CurrentPassword string
	FirstName       string
	Surname         string
	Email           string
	Password        string
	PasswordConfirm string
	IsAdmin         *bool
}

type ImageUpload struct {
	FileName string
	File     io.Reader
	Size     int64
}

type PostRequest struct {
	PostID      string
	AuthorID    string
	Title       string
	Body        string
	Image       *ImageUpload
	RemoveImage bool
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
