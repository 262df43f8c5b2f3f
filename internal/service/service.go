package service

import (
	"bloghub/internal/auth"
	"bloghub/internal/config"
	"bloghub/internal/repository"
	"bloghub/internal/storage"
)

type Service struct {
	User UserService
	Post PostService
	Auth AuthService
}

// NewService wires the services. storage may be nil (cover images disabled)
// and denylist may be nil (logout only clears the cookie).
func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, denylist auth.Denylist) *Service {
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenManager(cfg)

	return &Service{
		User: NewUserService(rep.User, rep.Post, hasher, storage),
		Post: NewPostService(rep.Post, rep.User, storage),
		Auth: NewAuthService(rep.User, hasher, tokens, denylist),
	}
}
