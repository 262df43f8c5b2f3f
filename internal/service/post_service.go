package service

import (
	"context"
	"fmt"
	"strings"

	"bloghub/internal/auth"
	"bloghub/internal/common"
	"bloghub/internal/logutil"
	"bloghub/internal/models"
	"bloghub/internal/repository"
	"bloghub/internal/storage"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const MsgImagesDisabled = "Cover images are not enabled on this site."

type PostService interface {
	CreatePost(ctx context.Context, caller auth.Identity, req PostRequest) (*models.Post, error)
	GetPost(ctx context.Context, postID string) (*models.PostWithAuthor, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.PostWithAuthor, error)
	ListAll(ctx context.Context) ([]models.PostWithAuthor, error)
	UpdatePost(ctx context.Context, caller auth.Identity, req PostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, caller auth.Identity, postID string) error
}

type postService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	storage  storage.Storage
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, storage storage.Storage) PostService {
	return &postService{
		postRepo: postRepo,
		userRepo: userRepo,
		storage:  storage,
	}
}

func makeSlug(title string) string {
	s := slug.Make(title)
	if s == "" {
		return "post"
	}
	return s
}

func cleanPost(req *PostRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		return common.NewValidationError(common.MsgMissingFields)
	}
	return nil
}

// CreatePost writes a post for the caller, or for req.AuthorID when the caller
// is an admin posting on someone else's behalf.
func (p *postService) CreatePost(ctx context.Context, caller auth.Identity, req PostRequest) (*models.Post, error) {
	if !caller.IsAuthenticated() {
		return nil, common.ErrForbidden
	}

	authorID := caller.UserID()
	if req.AuthorID != "" && req.AuthorID != authorID {
		if !caller.IsAdmin() {
			return nil, common.ErrForbidden
		}
		if _, err := p.userRepo.GetUserByID(ctx, req.AuthorID); err != nil {
			return nil, err
		}
		authorID = req.AuthorID
	}

	if err := cleanPost(&req); err != nil {
		return nil, err
	}

	post := &models.Post{
		PostID:   uuid.New().String(),
		AuthorID: authorID,
		Title:    req.Title,
		Body:     req.Body,
		Slug:     makeSlug(req.Title),
	}

	if req.Image != nil {
		image, err := p.uploadImage(ctx, post.PostID, req.Image)
		if err != nil {
			return nil, err
		}
		post.ImageKey = image.ObjectKey
		post.ImageURL = image.URL
	}

	if err := p.postRepo.Create(ctx, post); err != nil {
		if post.ImageKey != "" {
			p.deleteImage(ctx, post.ImageKey)
		}
		return nil, err
	}

	return post, nil
}

func (p *postService) GetPost(ctx context.Context, postID string) (*models.PostWithAuthor, error) {
	return p.postRepo.GetByID(ctx, postID)
}

func (p *postService) ListByAuthor(ctx context.Context, authorID string) ([]models.PostWithAuthor, error) {
	return p.postRepo.GetByAuthorID(ctx, authorID)
}

func (p *postService) ListAll(ctx context.Context) ([]models.PostWithAuthor, error) {
	return p.postRepo.GetAll(ctx)
}

func (p *postService) UpdatePost(ctx context.Context, caller auth.Identity, req PostRequest) (*models.Post, error) {
	existing, err := p.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	if !auth.CanModify(caller, existing.AuthorID) {
		return nil, common.ErrForbidden
	}

	if err := cleanPost(&req); err != nil {
		return nil, err
	}

	post := existing.Post
	oldKey := post.ImageKey

	post.Title = req.Title
	post.Body = req.Body
	post.Slug = makeSlug(req.Title)

	switch {
	case req.Image != nil:
		image, err := p.uploadImage(ctx, post.PostID, req.Image)
		if err != nil {
			return nil, err
		}
		post.ImageKey = image.ObjectKey
		post.ImageURL = image.URL
	case req.RemoveImage:
		post.ImageKey = ""
		post.ImageURL = ""
	}

	if err := p.postRepo.Update(ctx, &post); err != nil {
		if post.ImageKey != oldKey && post.ImageKey != "" {
			p.deleteImage(ctx, post.ImageKey)
		}
		return nil, err
	}

	if oldKey != "" && oldKey != post.ImageKey {
		p.deleteImage(ctx, oldKey)
	}

	return &post, nil
}

func (p *postService) DeletePost(ctx context.Context, caller auth.Identity, postID string) error {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if !auth.CanModify(caller, post.AuthorID) {
		return common.ErrForbidden
	}

	if err := p.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	if post.ImageKey != "" {
		p.deleteImage(ctx, post.ImageKey)
	}

	return nil
}

func (p *postService) uploadImage(ctx context.Context, postID string, upload *ImageUpload) (*models.Image, error) {
	if p.storage == nil {
		return nil, common.NewValidationError(MsgImagesDisabled)
	}

	image, err := p.storage.UploadImage(ctx, postID, upload.FileName, upload.File, upload.Size)
	if err != nil {
		if _, ok := common.AsValidation(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("error uploading cover image: %w", err)
	}

	return image, nil
}

func (p *postService) deleteImage(ctx context.Context, key string) {
	if p.storage == nil {
		return
	}
	if err := p.storage.DeleteImage(ctx, key); err != nil {
		logger := logutil.GetOrDefault(ctx)
		logger.Warn().Err(err).Str("object_key", key).Msg("could not delete cover image")
	}
}
