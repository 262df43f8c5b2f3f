package handlers

import (
	"context"
	"net/http"

	"bloghub/internal/auth"
	"bloghub/internal/config"
	"bloghub/internal/logutil"
	"bloghub/internal/service"
	"bloghub/internal/view"

	"github.com/go-playground/validator/v10"
)

// HealthChecker is satisfied by *database.DB.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handlers struct {
	UserService   service.UserService
	AuthService   service.AuthService
	PostService   service.PostService
	Cookies       *auth.CookieManager
	View          view.Renderer
	Health        HealthChecker
	Cfg           *config.Config
	Validate      *validator.Validate
	ImagesEnabled bool
}

func NewHandlers(services *service.Service, cfg *config.Config, renderer view.Renderer, health HealthChecker, imagesEnabled bool) *Handlers {
	return &Handlers{
		UserService:   services.User,
		AuthService:   services.Auth,
		PostService:   services.Post,
		Cookies:       auth.NewCookieManager(cfg),
		View:          renderer,
		Health:        health,
		Cfg:           cfg,
		Validate:      newValidator(),
		ImagesEnabled: imagesEnabled,
	}
}

// render fills in the caller's identity unless data already carries one.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data view.Data) {
	if data == nil {
		data = view.Data{}
	}
	if _, ok := data["Identity"]; !ok {
		data["Identity"] = auth.IdentityFrom(r.Context())
	}

	if err := h.View.Render(w, status, name, data); err != nil {
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusFound)
}
