package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bloghub/internal/common"
	"bloghub/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	postWithAuthorSelect = `
		SELECT p.post_id, p.author_id, p.title, p.body, p.slug, p.image_key, p.image_url,
			p.created_at, p.updated_at,
			COALESCE(u.first_name, '') AS author_first_name,
			COALESCE(u.surname, '') AS author_surname
		FROM posts p
		LEFT JOIN users u ON u.user_id = p.author_id
	`

	insertPostQuery = `
		INSERT INTO posts (post_id, author_id, title, body, slug, image_key, image_url, created_at, updated_at)
		VALUES (:post_id, :author_id, :title, :body, :slug, :image_key, :image_url, :created_at, :updated_at)
	`
	selectPostByIDQuery      = postWithAuthorSelect + ` WHERE p.post_id = $1`
	selectPostsByAuthorQuery = postWithAuthorSelect + ` WHERE p.author_id = $1 ORDER BY p.created_at DESC`
	selectAllPostsQuery      = postWithAuthorSelect + ` ORDER BY p.created_at DESC`
	updatePostQuery          = `
		UPDATE posts SET
			title = :title,
			body = :body,
			slug = :slug,
			image_key = :image_key,
			image_url = :image_url,
			updated_at = :updated_at
		WHERE post_id = :post_id
	`
	deletePostQuery          = `DELETE FROM posts WHERE post_id = $1`
	deletePostsByAuthorQuery = `DELETE FROM posts WHERE author_id = $1`
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}

	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := r.db.NamedExecContext(ctx, insertPostQuery, post); err != nil {
		return fmt.Errorf("error creating post: %w", err)
	}

	return nil
}

func (r *postRepository) GetByID(ctx context.Context, postID string) (*models.PostWithAuthor, error) {
	if !isRowID(postID) {
		return nil, fmt.Errorf("post %s: %w", postID, common.ErrNotFound)
	}

	var post models.PostWithAuthor

	err := r.db.GetContext(ctx, &post, selectPostByIDQuery, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %s: %w", postID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("error getting post: %w", err)
	}

	return &post, nil
}

func (r *postRepository) GetByAuthorID(ctx context.Context, authorID string) ([]models.PostWithAuthor, error) {
	posts := []models.PostWithAuthor{}

	if err := r.db.SelectContext(ctx, &posts, selectPostsByAuthorQuery, authorID); err != nil {
		return nil, fmt.Errorf("error getting posts of user %s: %w", authorID, err)
	}

	return posts, nil
}

func (r *postRepository) GetAll(ctx context.Context) ([]models.PostWithAuthor, error) {
	posts := []models.PostWithAuthor{}

	if err := r.db.SelectContext(ctx, &posts, selectAllPostsQuery); err != nil {
		return nil, fmt.Errorf("error getting posts: %w", err)
	}

	return posts, nil
}

// Update never touches author_id or created_at.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now().UTC()

	result, err := r.db.NamedExecContext(ctx, updatePostQuery, post)
	if err != nil {
		return fmt.Errorf("error updating post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("post %s: %w", post.PostID, common.ErrNotFound)
	}

	return nil
}

func (r *postRepository) Delete(ctx context.Context, postID string) error {
	result, err := r.db.ExecContext(ctx, deletePostQuery, postID)
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("post %s: %w", postID, common.ErrNotFound)
	}

	return nil
}

func (r *postRepository) DeleteByAuthorID(ctx context.Context, authorID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, deletePostsByAuthorQuery, authorID)
	if err != nil {
		return 0, fmt.Errorf("error deleting posts of user %s: %w", authorID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error checking deleted rows: %w", err)
	}

	return rowsAffected, nil
}
