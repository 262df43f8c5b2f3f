package models

import (
	"time"
)

type Role int

const (
	RoleRegular Role = iota
	RoleAdmin
)

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "regular"
}

type User struct {
	UserID       string `json:"userId" db:"user_id"`
	FirstName    string `json:"firstName" db:"first_name"`
	Surname      string `json:"surname" db:"surname"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	IsAdmin      bool   `json:"isAdmin" db:"is_admin"`
}

func (u *User) Role() Role {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleRegular
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.Surname
}

type Post struct {
	PostID    string    `json:"postId" db:"post_id"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Slug      string    `json:"slug" db:"slug"`
	ImageKey  string    `json:"-" db:"image_key"`
	ImageURL  string    `json:"imageUrl" db:"image_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// PostWithAuthor is a post joined with its author's display name.
type PostWithAuthor struct {
	Post
	AuthorFirstName string `json:"authorFirstName" db:"author_first_name"`
	AuthorSurname   string `json:"authorSurname" db:"author_surname"`
}

// Image is an uploaded cover image before it is attached to a post.
type Image struct {
	ObjectKey   string
	URL         string
	ContentType string
	Size        int64
}
