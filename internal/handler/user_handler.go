package handlers

import (
	"net/http"
	"time"

	"bloghub/internal/auth"
	"bloghub/internal/models"
	"bloghub/internal/service"
	"bloghub/internal/view"

	"github.com/gorilla/mux"
)

type updateForm struct {
	CurrentPassword string
	FirstName       string `label:"First name" validate:"required,max=100"`
	Surname         string `label:"Surname" validate:"required,max=100"`
	Email           string `label:"Email" validate:"required,email,max=254"`
	Password        string `label:"Password" validate:"max=72"`
	PasswordConfirm string
	IsAdmin         bool
}

func parseUpdateForm(r *http.Request) updateForm {
	return updateForm{
		CurrentPassword: r.FormValue("current_password"),
		FirstName:       r.FormValue("first_name"),
		Surname:         r.FormValue("surname"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
		IsAdmin:         r.FormValue("is_admin") == "true",
	}
}

func formFromUser(u *models.User) view.Form {
	return view.Form{FirstName: u.FirstName, Surname: u.Surname, Email: u.Email, IsAdmin: u.IsAdmin}
}

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFrom(r.Context())
	h.render(w, r, http.StatusOK, "profile", view.Data{"User": id.User})
}

func (h *Handlers) AdminProfile(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFrom(r.Context())
	h.render(w, r, http.StatusOK, "profile", view.Data{"User": id.User, "Admin": true})
}

func (h *Handlers) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFrom(r.Context())
	h.render(w, r, http.StatusOK, "update", view.Data{
		"Action": "/update",
		"User":   id.User,
		"Self":   true,
		"Form":   formFromUser(id.User),
	})
}

func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFrom(r.Context())
	h.updateUser(w, r, id.User, false)
}

func (h *Handlers) AdminUpdatePage(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "update", view.Data{
		"Action": "/update/" + user.UserID,
		"User":   user,
		"Form":   formFromUser(user),
		"Admin":  true,
		"Self":   user.UserID == auth.IdentityFrom(r.Context()).UserID(),
	})
}

func (h *Handlers) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.updateUser(w, r, user, true)
}

func (h *Handlers) updateUser(w http.ResponseWriter, r *http.Request, target *models.User, admin bool) {
	form := parseUpdateForm(r)

	self := target.UserID == auth.IdentityFrom(r.Context()).UserID()
	action := "/update"
	done := "/profile"
	if admin {
		action = "/update/" + target.UserID
		done = "/allusers"
	}

	rerender := func(msg string) {
		h.render(w, r, http.StatusBadRequest, "update", view.Data{
			"Action":  action,
			"User":    target,
			"Admin":   admin,
			"Self":    self,
			"Message": msg,
			"Form":    view.Form{FirstName: form.FirstName, Surname: form.Surname, Email: form.Email, IsAdmin: form.IsAdmin},
		})
	}

	if err := h.Validate.Struct(form); err != nil {
		msg, _ := formMessage(err)
		rerender(msg)
		return
	}

	req := service.UpdateUserRequest{
		UserID:          target.UserID,
		CurrentPassword: form.CurrentPassword,
		FirstName:       form.FirstName,
		Surname:         form.Surname,
		Email:           form.Email,
		Password:        form.Password,
		PasswordConfirm: form.PasswordConfirm,
	}
	if admin {
		req.IsAdmin = &form.IsAdmin
	}

	if _, err := h.UserService.UpdateUser(r.Context(), auth.IdentityFrom(r.Context()), req); err != nil {
		if msg, ok := formMessage(err); ok {
			rerender(msg)
			return
		}
		h.fail(w, r, err)
		return
	}

	redirect(w, r, done)
}

func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFrom(r.Context())
	h.deleteUser(w, r, id.UserID())
}

func (h *Handlers) AdminDelete(w http.ResponseWriter, r *http.Request) {
	h.deleteUser(w, r, mux.Vars(r)["id"])
}

// deleteUser ends the session when callers delete their own account.
func (h *Handlers) deleteUser(w http.ResponseWriter, r *http.Request, userID string) {
	id := auth.IdentityFrom(r.Context())

	deleted, err := h.UserService.DeleteUser(r.Context(), id, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if userID != id.UserID() {
		redirect(w, r, "/allusers")
		return
	}

	h.Cookies.Clear(w, time.Now())
	h.render(w, r, http.StatusOK, "deleted", view.Data{
		"Identity": auth.Anonymous(),
		"Message":  service.DeletedUserMessage(deleted),
	})
}

func (h *Handlers) AdminRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", view.Data{"Action": "/admin-register", "Admin": true})
}

func (h *Handlers) AdminRegister(w http.ResponseWriter, r *http.Request) {
	form := parseRegisterForm(r)

	rerender := func(msg string) {
		h.render(w, r, http.StatusBadRequest, "register", view.Data{
			"Action":  "/admin-register",
			"Admin":   true,
			"Message": msg,
			"Form":    form.echo(),
		})
	}

	if err := h.Validate.Struct(form); err != nil {
		msg, _ := formMessage(err)
		rerender(msg)
		return
	}

	if _, err := h.UserService.CreateUser(r.Context(), form.request()); err != nil {
		if msg, ok := formMessage(err); ok {
			rerender(msg)
			return
		}
		h.fail(w, r, err)
		return
	}

	redirect(w, r, "/allusers")
}

func (h *Handlers) AllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "allusers", view.Data{"Users": users})
}
