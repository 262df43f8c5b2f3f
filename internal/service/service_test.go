package service

import (
	"context"
	"io"
	"testing"
	"time"

	"bloghub/internal/auth"
	"bloghub/internal/config"
	"bloghub/internal/models"
	"bloghub/internal/repository/repotest"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Unix(1_700_000_000, 0)

var testConfig = &config.Config{
	JWTSecretKey: "test-secret",
	TokenTTL:     time.Hour,
	CookieTTL:    24 * time.Hour,
	BcryptCost:   bcrypt.MinCost,
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadImage(ctx context.Context, postID string, fileName string, file io.Reader, size int64) (*models.Image, error) {
	args := m.Called(ctx, postID, fileName, file, size)
	if img := args.Get(0); img != nil {
		return img.(*models.Image), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) DeleteImage(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}

type fixture struct {
	store   *repotest.Store
	hasher  *auth.PasswordHasher
	tokens  *auth.TokenManager
	auth    AuthService
	users   UserService
	posts   PostService
	storage *MockStorage
}

func newFixture(t *testing.T, denylist auth.Denylist) *fixture {
	t.Helper()

	f := &fixture{
		store:   repotest.New(),
		hasher:  auth.NewPasswordHasher(testConfig.BcryptCost),
		tokens:  auth.NewTokenManager(testConfig),
		storage: &MockStorage{},
	}
	f.auth = NewAuthService(f.store.Users(), f.hasher, f.tokens, denylist)
	f.users = NewUserService(f.store.Users(), f.store.Posts(), f.hasher, f.storage)
	f.posts = NewPostService(f.store.Posts(), f.store.Users(), f.storage)
	return f
}

func (f *fixture) addUser(t *testing.T, id, email string, admin bool) *models.User {
	t.Helper()

	hash, err := f.hasher.Hash("secret-" + id)
	require.NoError(t, err)

	user := &models.User{
		UserID:       id,
		FirstName:    "First" + id,
		Surname:      "Last" + id,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      admin,
	}
	require.NoError(t, f.store.Users().CreateUser(context.Background(), user))
	return user
}

func (f *fixture) addPost(t *testing.T, id, authorID string) {
	t.Helper()

	require.NoError(t, f.store.Posts().Create(context.Background(), &models.Post{
		PostID:   id,
		AuthorID: authorID,
		Title:    "Title " + id,
		Body:     "Body " + id,
		Slug:     "title-" + id,
	}))
}

func identityOf(user *models.User) auth.Identity {
	return auth.Authenticated(user, nil)
}
