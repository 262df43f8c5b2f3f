// Package repotest provides an in-memory store for tests above the repository layer.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bloghub/internal/common"
	"bloghub/internal/models"
	"bloghub/internal/repository"

	"github.com/google/uuid"
)

// Store keeps users and posts in maps and enforces the unique email index.
// Set the Err* fields to make the matching operation fail.
type Store struct {
	mu    sync.Mutex
	users map[string]models.User
	posts map[string]models.Post
	clock int64

	ErrGetUser          error
	ErrDeleteByAuthorID error
}

func New() *Store {
	return &Store{
		users: map[string]models.User{},
		posts: map[string]models.Post{},
	}
}

func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User: (*userStore)(s),
		Post: (*postStore)(s),
	}
}

func (s *Store) Users() repository.UserRepository { return (*userStore)(s) }

func (s *Store) Posts() repository.PostRepository { return (*postStore)(s) }

// CountUsersWithEmail lets tests check the uniqueness invariant directly.
func (s *Store) CountUsersWithEmail(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, u := range s.users {
		if u.Email == email {
			n++
		}
	}
	return n
}

// strictly increasing timestamps keep newest-first ordering deterministic
func (s *Store) tick() time.Time {
	s.clock++
	return time.Unix(1_700_000_000+s.clock, 0).UTC()
}

type userStore Store

func (s *userStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return common.ErrDuplicateEmail
		}
	}
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	s.users[user.UserID] = *user
	return nil
}

func (s *userStore) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ErrGetUser != nil {
		return nil, s.ErrGetUser
	}
	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, common.ErrNotFound)
	}
	return &u, nil
}

func (s *userStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, common.ErrNotFound)
}

func (s *userStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Surname != users[j].Surname {
			return users[i].Surname < users[j].Surname
		}
		return users[i].FirstName < users[j].FirstName
	})
	return users, nil
}

func (s *userStore) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.UserID]; !ok {
		return fmt.Errorf("user %s: %w", user.UserID, common.ErrNotFound)
	}
	for id, u := range s.users {
		if id != user.UserID && u.Email == user.Email {
			return common.ErrDuplicateEmail
		}
	}
	s.users[user.UserID] = *user
	return nil
}

func (s *userStore) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("user %s: %w", userID, common.ErrNotFound)
	}
	delete(s.users, userID)
	return nil
}

type postStore Store

func (s *postStore) withAuthor(p models.Post) models.PostWithAuthor {
	out := models.PostWithAuthor{Post: p}
	if u, ok := s.users[p.AuthorID]; ok {
		out.AuthorFirstName = u.FirstName
		out.AuthorSurname = u.Surname
	}
	return out
}

func (s *postStore) collect(keep func(models.Post) bool) []models.PostWithAuthor {
	posts := []models.PostWithAuthor{}
	for _, p := range s.posts {
		if keep(p) {
			posts = append(posts, s.withAuthor(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func (s *postStore) Create(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}
	now := (*Store)(s).tick()
	post.CreatedAt = now
	post.UpdatedAt = now
	s.posts[post.PostID] = *post
	return nil
}

func (s *postStore) GetByID(_ context.Context, postID string) (*models.PostWithAuthor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", postID, common.ErrNotFound)
	}
	out := s.withAuthor(p)
	return &out, nil
}

func (s *postStore) GetByAuthorID(_ context.Context, authorID string) ([]models.PostWithAuthor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(p models.Post) bool { return p.AuthorID == authorID }), nil
}

func (s *postStore) GetAll(_ context.Context) ([]models.PostWithAuthor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(models.Post) bool { return true }), nil
}

func (s *postStore) Update(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[post.PostID]
	if !ok {
		return fmt.Errorf("post %s: %w", post.PostID, common.ErrNotFound)
	}
	post.AuthorID = existing.AuthorID
	post.CreatedAt = existing.CreatedAt
	post.UpdatedAt = (*Store)(s).tick()
	s.posts[post.PostID] = *post
	return nil
}

func (s *postStore) Delete(_ context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return fmt.Errorf("post %s: %w", postID, common.ErrNotFound)
	}
	delete(s.posts, postID)
	return nil
}

func (s *postStore) DeleteByAuthorID(_ context.Context, authorID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ErrDeleteByAuthorID != nil {
		return 0, s.ErrDeleteByAuthorID
	}
	var n int64
	for id, p := range s.posts {
		if p.AuthorID == authorID {
			delete(s.posts, id)
			n++
		}
	}
	return n, nil
}
