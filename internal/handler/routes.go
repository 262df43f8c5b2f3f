package handlers

import (
	"net/http"

	"bloghub/internal/auth"
	"bloghub/internal/middleware"

	"github.com/gorilla/mux"
)

func (h *Handlers) route(r *mux.Router, path string, policy auth.Policy, handler http.HandlerFunc, methods ...string) {
	r.Handle(path, middleware.Authorize(policy)(handler)).Methods(methods...)
}

// Routes returns the whole site. Every request passes the logger, then the
// session gate, then the route's policy.
func (h *Handlers) Routes() http.Handler {
	r := mux.NewRouter()
	get, post := http.MethodGet, http.MethodPost

	h.route(r, "/", auth.Public, h.Home, get)
	h.route(r, "/health", auth.Public, h.HealthHandler, get)

	h.route(r, "/register", auth.RequireAnonymous, h.RegisterPage, get)
	h.route(r, "/register", auth.RequireAnonymous, h.Register, post)
	h.route(r, "/login", auth.RequireAnonymous, h.LoginPage, get)
	h.route(r, "/login", auth.Public, h.Login, post)
	h.route(r, "/logout", auth.Public, h.Logout, get)

	h.route(r, "/profile", auth.RequireAuthenticated, h.Profile, get)
	h.route(r, "/admin-profile", auth.RequireAdmin, h.AdminProfile, get)
	h.route(r, "/update", auth.RequireAuthenticated, h.UpdatePage, get)
	h.route(r, "/update", auth.RequireAuthenticated, h.Update, post)
	h.route(r, "/delete", auth.RequireAuthenticated, h.Delete, post)

	h.route(r, "/admin-register", auth.RequireAdmin, h.AdminRegisterPage, get)
	h.route(r, "/admin-register", auth.RequireAdmin, h.AdminRegister, post)
	h.route(r, "/allusers", auth.RequireAdmin, h.AllUsers, get)
	h.route(r, "/update/{id}", auth.RequireAdmin, h.AdminUpdatePage, get)
	h.route(r, "/update/{id}", auth.RequireAdmin, h.AdminUpdate, post)
	h.route(r, "/delete/{id}", auth.RequireAdmin, h.AdminDelete, post)

	h.route(r, "/newblog", auth.RequireAuthenticated, h.NewBlogPage, get)
	h.route(r, "/newblog", auth.RequireAuthenticated, h.NewBlog, post)
	h.route(r, "/newblog/{id}", auth.RequireAdmin, h.AdminNewBlogPage, get)
	h.route(r, "/newblog/{id}", auth.RequireAdmin, h.AdminNewBlog, post)
	h.route(r, "/userblogs", auth.RequireAuthenticated, h.UserBlogs, get)
	h.route(r, "/admin-userblogs/{id}", auth.RequireAdmin, h.AdminUserBlogs, get)
	h.route(r, "/allblogs", auth.RequireAuthenticated, h.AllBlogs, get)
	h.route(r, "/blog/{id}", auth.RequireAuthenticated, h.Blog, get)
	h.route(r, "/blog/{id}/{slug}", auth.RequireAuthenticated, h.Blog, get)
	h.route(r, "/updateblog/{id}", auth.RequireAuthenticated, h.UpdateBlogPage, get)
	h.route(r, "/updateblog/{id}", auth.RequireAuthenticated, h.UpdateBlog, post)
	h.route(r, "/deleteblog/{id}", auth.RequireAuthenticated, h.DeleteBlog, post)

	h.route(r, "/not-admin", auth.Public, h.NotAdmin, get)
	h.route(r, "/error", auth.Public, h.ErrorPage, get)

	r.NotFoundHandler = http.HandlerFunc(h.NotFound)

	return middleware.Chain(
		r,
		middleware.AuthMiddleware(h.AuthService, h.Cookies),
		middleware.LoggingMiddleware,
	)
}
