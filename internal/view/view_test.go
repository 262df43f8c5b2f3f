package view

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bloghub/internal/auth"
	"bloghub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPages(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	admin := auth.Authenticated(&models.User{UserID: "a1", FirstName: "Grace", Surname: "Hopper", IsAdmin: true}, nil)
	post := &models.PostWithAuthor{
		Post: models.Post{
			PostID: "p1", Title: "Compilers", Body: "First.\n\nSecond.", Slug: "compilers",
			CreatedAt: time.Now().Add(-48 * time.Hour), UpdatedAt: time.Now(),
		},
		AuthorFirstName: "Grace",
		AuthorSurname:   "Hopper",
	}

	tests := []struct {
		name     string
		data     Data
		contains []string
		missing  []string
	}{
		{
			name:     "home",
			data:     nil,
			contains: []string{"Log in", "Register"},
			missing:  []string{"All users"},
		},
		{
			name:     "home",
			data:     Data{"Identity": admin},
			contains: []string{"Hello Grace", "All users", "Log out"},
		},
		{
			name:     "register",
			data:     Data{"Action": "/register", "Message": "Passwords differ", "Form": Form{Email: "a@x.com"}},
			contains: []string{`action="/register"`, "Passwords differ", `value="a@x.com"`},
			missing:  []string{"Administrator"},
		},
		{
			name:     "blogs",
			data:     Data{"Identity": admin, "Heading": "All blogs", "Posts": []models.PostWithAuthor{*post}},
			contains: []string{"All blogs", "/blog/p1/compilers", "by Grace Hopper", "2 days ago"},
		},
		{
			name:     "blogs",
			data:     Data{"Heading": "My blogs", "Posts": []models.PostWithAuthor{}},
			contains: []string{"No blogs yet."},
		},
		{
			name:     "blog",
			data:     Data{"Identity": admin, "Post": post, "CanModify": true},
			contains: []string{"<p>First.</p>", "<p>Second.</p>", "/updateblog/p1", "edited"},
		},
		{
			name:     "allusers",
			data:     Data{"Identity": admin, "Users": []models.User{{UserID: "u1", FirstName: "Ada", Surname: "L", IsAdmin: false}}},
			contains: []string{"/update/u1", "regular"},
		},
		{
			name:     "newblog",
			data:     Data{"Action": "/newblog", "ImagesEnabled": false},
			contains: []string{"Publish"},
			missing:  []string{"Cover image"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, r.Render(rec, http.StatusOK, tt.name, tt.data))

			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			for _, s := range tt.contains {
				assert.Contains(t, rec.Body.String(), s)
			}
			for _, s := range tt.missing {
				assert.NotContains(t, rec.Body.String(), s)
			}
		})
	}
}

func TestRenderStatusAndEscaping(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusBadRequest, "login", Data{"Message": "<script>x</script>"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>x</script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	assert.Error(t, r.Render(rec, http.StatusOK, "missing", nil))
	assert.Zero(t, rec.Body.Len())
}
