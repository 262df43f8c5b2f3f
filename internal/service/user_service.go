package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bloghub/internal/auth"
	"bloghub/internal/common"
	"bloghub/internal/logutil"
	"bloghub/internal/models"
	"bloghub/internal/repository"
	"bloghub/internal/storage"
)

type UserService interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, req RegisterRequest) (*models.User, error)
	UpdateUser(ctx context.Context, caller auth.Identity, req UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, caller auth.Identity, userID string) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	hasher   *auth.PasswordHasher
	storage  storage.Storage
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository, hasher *auth.PasswordHasher, storage storage.Storage) UserService {
	return &userService{
		userRepo: userRepo,
		postRepo: postRepo,
		hasher:   hasher,
		storage:  storage,
	}
}

// createAccount is shared by self-registration and admin registration.
// The read-before-write check catches most duplicates; the unique index on
// users.email catches the rest and surfaces as the same validation error.
func createAccount(ctx context.Context, userRepo repository.UserRepository, hasher *auth.PasswordHasher, req RegisterRequest) (*models.User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.Surname = strings.TrimSpace(req.Surname)
	req.Email = normalizeEmail(req.Email)

	if req.FirstName == "" || req.Surname == "" || req.Email == "" || req.Password == "" {
		return nil, common.NewValidationError(common.MsgMissingFields)
	}

	if req.Password != req.PasswordConfirm {
		return nil, common.NewValidationError(common.MsgPasswordMismatch)
	}

	existing, err := userRepo.GetUserByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		return nil, common.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hash, err := hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    req.FirstName,
		Surname:      req.Surname,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
	}

	if err := userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListUsers(ctx)
}

func (s *userService) CreateUser(ctx context.Context, req RegisterRequest) (*models.User, error) {
	return createAccount(ctx, s.userRepo, s.hasher, req)
}

func (s *userService) UpdateUser(ctx context.Context, caller auth.Identity, req UpdateUserRequest) (*models.User, error) {
	if !caller.IsAdmin() && caller.UserID() != req.UserID {
		return nil, common.ErrForbidden
	}

	user, err := s.userRepo.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if caller.UserID() == user.UserID && !s.hasher.Verify(req.CurrentPassword, user.PasswordHash) {
		return nil, common.NewValidationError(common.MsgWrongPassword)
	}

	firstName := strings.TrimSpace(req.FirstName)
	surname := strings.TrimSpace(req.Surname)
	email := normalizeEmail(req.Email)
	if firstName == "" || surname == "" || email == "" {
		return nil, common.NewValidationError(common.MsgMissingFields)
	}

	if email != user.Email {
		existing, err := s.userRepo.GetUserByEmail(ctx, email)
		if err == nil && existing != nil && existing.UserID != user.UserID {
			return nil, common.ErrDuplicateEmail
		}
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	}

	if req.Password != "" {
		if req.Password != req.PasswordConfirm {
			return nil, common.NewValidationError(common.MsgPasswordMismatch)
		}
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	user.FirstName = firstName
	user.Surname = surname
	user.Email = email
	if req.IsAdmin != nil && caller.IsAdmin() {
		user.IsAdmin = *req.IsAdmin
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes the account and then its posts. A failure on the second
// write leaves orphaned posts; it is logged and the deletion still succeeds.
func (s *userService) DeleteUser(ctx context.Context, caller auth.Identity, userID string) (*models.User, error) {
	if !caller.IsAdmin() && caller.UserID() != userID {
		return nil, common.ErrForbidden
	}

	logger := logutil.GetOrDefault(ctx)

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var imageKeys []string
	if s.storage != nil {
		posts, err := s.postRepo.GetByAuthorID(ctx, userID)
		if err != nil {
			logger.Warn().Err(err).Str("user_id", userID).Msg("could not list posts for image cleanup")
		}
		for _, p := range posts {
			if p.ImageKey != "" {
				imageKeys = append(imageKeys, p.ImageKey)
			}
		}
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return nil, err
	}

	deleted, err := s.postRepo.DeleteByAuthorID(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("user deleted but their posts were not, posts are orphaned")
		return user, nil
	}

	for _, key := range imageKeys {
		if err := s.storage.DeleteImage(ctx, key); err != nil {
			logger.Warn().Err(err).Str("object_key", key).Msg("could not delete cover image")
		}
	}

	logger.Info().Str("user_id", userID).Int64("posts_deleted", deleted).Msg("user deleted")
	return user, nil
}

// DeletedUserMessage is shown after an account is removed.
func DeletedUserMessage(user *models.User) string {
	name := user.FullName()
	return fmt.Sprintf("%s has been deleted. Any blogs by %s have also been deleted.", name, name)
}
