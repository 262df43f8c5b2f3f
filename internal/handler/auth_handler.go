package handlers

import (
	"errors"
	"net/http"
	"time"

	"bloghub/internal/auth"
	"bloghub/internal/common"
	"bloghub/internal/logutil"
	"bloghub/internal/service"
	"bloghub/internal/view"
)

type registerForm struct {
	FirstName       string `label:"First name" validate:"required,max=100"`
	Surname         string `label:"Surname" validate:"required,max=100"`
	Email           string `label:"Email" validate:"required,email,max=254"`
	Password        string `label:"Password" validate:"required,max=72"`
	PasswordConfirm string `label:"Password confirmation" validate:"required"`
	IsAdmin         bool
}

func parseRegisterForm(r *http.Request) registerForm {
	return registerForm{
		FirstName:       r.FormValue("first_name"),
		Surname:         r.FormValue("surname"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
		IsAdmin:         r.FormValue("is_admin") == "true",
	}
}

func (f registerForm) echo() view.Form {
	return view.Form{FirstName: f.FirstName, Surname: f.Surname, Email: f.Email, IsAdmin: f.IsAdmin}
}

func (f registerForm) request() service.RegisterRequest {
	return service.RegisterRequest{
		FirstName:       f.FirstName,
		Surname:         f.Surname,
		Email:           f.Email,
		Password:        f.Password,
		PasswordConfirm: f.PasswordConfirm,
		IsAdmin:         f.IsAdmin,
	}
}

type loginForm struct {
	Email    string `label:"Email" validate:"required"`
	Password string `label:"Password" validate:"required"`
}

func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", view.Data{"Action": "/register"})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	form := parseRegisterForm(r)
	form.IsAdmin = false

	rerender := func(msg string) {
		h.render(w, r, http.StatusBadRequest, "register", view.Data{
			"Action":  "/register",
			"Message": msg,
			"Form":    form.echo(),
		})
	}

	if err := h.Validate.Struct(form); err != nil {
		msg, _ := formMessage(err)
		rerender(msg)
		return
	}

	user, err := h.AuthService.Register(r.Context(), form.request())
	if err != nil {
		if msg, ok := formMessage(err); ok {
			rerender(msg)
			return
		}
		h.fail(w, r, err)
		return
	}

	now := time.Now()
	token, err := h.AuthService.IssueToken(user, now)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.Cookies.Attach(w, token, now)
	redirect(w, r, "/profile")
}

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", nil)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	form := loginForm{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	if err := h.Validate.Struct(form); err != nil {
		msg, _ := formMessage(err)
		h.render(w, r, http.StatusBadRequest, "login", view.Data{
			"Message": msg,
			"Form":    view.Form{Email: form.Email},
		})
		return
	}

	now := time.Now()
	user, token, err := h.AuthService.Login(r.Context(), form.Email, form.Password, now)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			h.render(w, r, http.StatusUnauthorized, "login", view.Data{
				"Message": common.MsgInvalidCredentials,
				"Form":    view.Form{Email: form.Email},
			})
			return
		}
		h.fail(w, r, err)
		return
	}

	h.Cookies.Attach(w, token, now)
	if user.IsAdmin {
		redirect(w, r, "/admin-profile")
		return
	}
	redirect(w, r, "/profile")
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.Logout(r.Context(), auth.IdentityFrom(r.Context())); err != nil {
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Err(err).Msg("could not revoke session token")
	}

	h.Cookies.Clear(w, time.Now())
	h.render(w, r, http.StatusOK, "logout", view.Data{"Identity": auth.Anonymous()})
}
