package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bloghub/internal/auth"
	"bloghub/internal/common"
	"bloghub/internal/logutil"
	"bloghub/internal/models"
	"bloghub/internal/repository"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string, now time.Time) (*models.User, string, error)
	IssueToken(user *models.User, now time.Time) (string, error)
	Resolve(ctx context.Context, token string, now time.Time) auth.Identity
	Logout(ctx context.Context, id auth.Identity) error
}

type authService struct {
	userRepo repository.UserRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenManager
	denylist auth.Denylist
}

func NewAuthService(userRepo repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenManager, denylist auth.Denylist) AuthService {
	if denylist == nil {
		denylist = auth.NopDenylist{}
	}
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		denylist: denylist,
	}
}

// Register always creates a regular account.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.IsAdmin = false
	return createAccount(ctx, s.userRepo, s.hasher, req)
}

// Login reports unknown emails and wrong passwords with the same error and
// roughly the same cost.
func (s *authService) Login(ctx context.Context, email, password string, now time.Time) (*models.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("error looking up user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", common.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user, now)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *authService) IssueToken(user *models.User, now time.Time) (string, error) {
	return s.tokens.Issue(user.UserID, now)
}

// Resolve never fails: anything short of a verified, unrevoked token for an
// existing user yields the anonymous identity.
func (s *authService) Resolve(ctx context.Context, token string, now time.Time) auth.Identity {
	if token == "" {
		return auth.Anonymous()
	}

	logger := logutil.GetOrDefault(ctx)

	claims, err := s.tokens.Verify(token, now)
	if err != nil {
		logger.Debug().Err(err).Msg("session token rejected")
		return auth.Anonymous()
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.Error().Err(err).Msg("could not check token revocation")
		return auth.Anonymous()
	}
	if revoked {
		return auth.Anonymous()
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			logger.Error().Err(err).Str("user_id", claims.Subject).Msg("could not load session user")
		}
		return auth.Anonymous()
	}

	return auth.Authenticated(user, claims)
}

func (s *authService) Logout(ctx context.Context, id auth.Identity) error {
	if id.Session == nil || id.Session.ExpiresAt == nil {
		return nil
	}
	return s.denylist.Revoke(ctx, id.Session.ID, id.Session.ExpiresAt.Time)
}
