package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"bloghub/internal/auth"
	"bloghub/internal/models"
	"bloghub/internal/service"
	"bloghub/internal/view"

	"github.com/gorilla/mux"
)

type postForm struct {
	Title string `label:"Title" validate:"required,max=200"`
	Body  string `label:"Body" validate:"required"`
}

func postPath(p *models.Post) string {
	return "/blog/" + p.PostID + "/" + p.Slug
}

// parsePostForm reads a multipart or urlencoded post form. The returned
// upload is nil when no file was chosen; its file must be closed by the caller.
func (h *Handlers) parsePostForm(w http.ResponseWriter, r *http.Request) (postForm, *service.ImageUpload, multipart.File, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)
		if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return postForm{}, nil, nil, fmt.Errorf("the cover image is too large (max %d MB)", h.Cfg.MaxUploadSize/(1024*1024))
			}
			return postForm{}, nil, nil, fmt.Errorf("could not read the submitted form")
		}
	}

	form := postForm{
		Title: r.FormValue("title"),
		Body:  r.FormValue("body"),
	}

	file, header, err := r.FormFile("image")
	if err != nil || header.Size == 0 {
		if file != nil {
			file.Close()
		}
		return form, nil, nil, nil
	}

	return form, &service.ImageUpload{FileName: header.Filename, File: file, Size: header.Size}, file, nil
}

func (h *Handlers) NewBlogPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "newblog", view.Data{
		"Action":        "/newblog",
		"ImagesEnabled": h.ImagesEnabled,
	})
}

func (h *Handlers) NewBlog(w http.ResponseWriter, r *http.Request) {
	h.createPost(w, r, nil)
}

func (h *Handlers) AdminNewBlogPage(w http.ResponseWriter, r *http.Request) {
	author, err := h.UserService.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "newblog", view.Data{
		"Action":        "/newblog/" + author.UserID,
		"Author":        author,
		"ImagesEnabled": h.ImagesEnabled,
	})
}

func (h *Handlers) AdminNewBlog(w http.ResponseWriter, r *http.Request) {
	author, err := h.UserService.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.createPost(w, r, author)
}

// createPost writes a post for the caller, or for author when an admin posts on their behalf.
func (h *Handlers) createPost(w http.ResponseWriter, r *http.Request, author *models.User) {
	action := "/newblog"
	req := service.PostRequest{}
	if author != nil {
		action = "/newblog/" + author.UserID
		req.AuthorID = author.UserID
	}

	form, upload, file, err := h.parsePostForm(w, r)
	if file != nil {
		defer file.Close()
	}

	rerender := func(msg string) {
		data := view.Data{
			"Action":        action,
			"Message":       msg,
			"Form":          view.Form{Title: form.Title, Body: form.Body},
			"ImagesEnabled": h.ImagesEnabled,
		}
		if author != nil {
			data["Author"] = author
		}
		h.render(w, r, http.StatusBadRequest, "newblog", data)
	}

	if err != nil {
		rerender(err.Error())
		return
	}
	if err := h.Validate.Struct(form); err != nil {
		msg, _ := formMessage(err)
		rerender(msg)
		return
	}

	req.Title = form.Title
	req.Body = form.Body
	req.Image = upload

	post, err := h.PostService.CreatePost(r.Context(), auth.IdentityFrom(r.Context()), req)
	if err != nil {
		if msg, ok := formMessage(err); ok {
			rerender(msg)
			return
		}
		h.fail(w, r, err)
		return
	}

	if author != nil {
		redirect(w, r, "/admin-userblogs/"+author.UserID)
		return
	}
	redirect(w, r, postPath(post))
}

func (h *Handlers) UserBlogs(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFrom(r.Context())

	posts, err := h.PostService.ListByAuthor(r.Context(), id.UserID())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "blogs", view.Data{"Heading": "My blogs", "Posts": posts})
}

func (h *Handlers) AdminUserBlogs(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	posts, err := h.PostService.ListByAuthor(r.Context(), user.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "blogs", view.Data{"Heading": "Blogs by " + user.FullName(), "Posts": posts})
}

func (h *Handlers) AllBlogs(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.ListAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "blogs", view.Data{"Heading": "All blogs", "Posts": posts})
}

func (h *Handlers) Blog(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "blog", view.Data{
		"Post":      post,
		"CanModify": auth.CanModify(auth.IdentityFrom(r.Context()), post.AuthorID),
	})
}

func (h *Handlers) UpdateBlogPage(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if !auth.CanModify(auth.IdentityFrom(r.Context()), post.AuthorID) {
		redirect(w, r, "/not-admin")
		return
	}

	h.render(w, r, http.StatusOK, "newblog", view.Data{
		"Action":        "/updateblog/" + post.PostID,
		"Post":          post,
		"Form":          view.Form{Title: post.Title, Body: post.Body},
		"ImagesEnabled": h.ImagesEnabled,
	})
}

func (h *Handlers) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	form, upload, file, err := h.parsePostForm(w, r)
	if file != nil {
		defer file.Close()
	}

	rerender := func(msg string) {
		existing, getErr := h.PostService.GetPost(r.Context(), postID)
		if getErr != nil {
			h.fail(w, r, getErr)
			return
		}
		h.render(w, r, http.StatusBadRequest, "newblog", view.Data{
			"Action":        "/updateblog/" + postID,
			"Post":          existing,
			"Message":       msg,
			"Form":          view.Form{Title: form.Title, Body: form.Body},
			"ImagesEnabled": h.ImagesEnabled,
		})
	}

	if err != nil {
		rerender(err.Error())
		return
	}
	if err := h.Validate.Struct(form); err != nil {
		msg, _ := formMessage(err)
		rerender(msg)
		return
	}

	post, err := h.PostService.UpdatePost(r.Context(), auth.IdentityFrom(r.Context()), service.PostRequest{
		PostID:      postID,
		Title:       form.Title,
		Body:        form.Body,
		Image:       upload,
		RemoveImage: r.FormValue("remove_image") == "true",
	})
	if err != nil {
		if msg, ok := formMessage(err); ok {
			rerender(msg)
			return
		}
		h.fail(w, r, err)
		return
	}

	redirect(w, r, postPath(post))
}

func (h *Handlers) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	if err := h.PostService.DeletePost(r.Context(), auth.IdentityFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}

	redirect(w, r, "/userblogs")
}
