package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"bloghub/internal/common"
	"bloghub/internal/config"
	"bloghub/internal/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

const sniffLen = 3072

var ErrNotAnImage = common.NewValidationError("The cover image must be a PNG, JPEG, GIF or WebP file.")

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

type Storage interface {
	UploadImage(ctx context.Context, postID string, fileName string, file io.Reader, size int64) (*models.Image, error)
	DeleteImage(ctx context.Context, objectKey string) error
}

type MinIOClient struct {
	client *minio.Client
	bucket string
	public string
}

// NewMinIOClient returns nil, nil when MINIO_ENDPOINT is empty. Cover images are then disabled.
func NewMinIOClient(ctx context.Context, cfg *config.Config) (*MinIOClient, error) {
	if cfg.MinIO.Endpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinIO.BucketName)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket %s: %w", cfg.MinIO.BucketName, err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinIO.BucketName, minio.MakeBucketOptions{Region: cfg.MinIO.Region})
		if err != nil {
			return nil, fmt.Errorf("error creating bucket %s: %w", cfg.MinIO.BucketName, err)
		}
		log.Info().Str("bucket", cfg.MinIO.BucketName).Msg("Created MinIO bucket")
	}

	return &MinIOClient{
		client: client,
		bucket: cfg.MinIO.BucketName,
		public: publicBase(cfg.MinIO),
	}, nil
}

func publicBase(cfg config.MinIO) string {
	if cfg.PublicURL != "" {
		return strings.TrimSuffix(cfg.PublicURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.BucketName)
}

func objectKey(postID string, now time.Time, ext string) string {
	return fmt.Sprintf("posts/%s/%d/%02d/%s%s", postID, now.Year(), now.Month(), uuid.New().String(), ext)
}

// sniffImage reads the head of file and reports the detected image type.
// The returned reader replays the sniffed bytes before the rest of file.
func sniffImage(file io.Reader) (*mimetype.MIME, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, nil, fmt.Errorf("error reading upload: %w", err)
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return nil, nil, ErrNotAnImage
	}

	return mtype, io.MultiReader(bytes.NewReader(head), file), nil
}

func (m *MinIOClient) UploadImage(ctx context.Context, postID string, fileName string, file io.Reader, size int64) (*models.Image, error) {
	mtype, body, err := sniffImage(file)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	key := objectKey(postID, now, mtype.Extension())

	_, err = m.client.PutObject(ctx, m.bucket, key, body, size,
		minio.PutObjectOptions{
			ContentType: mtype.String(),
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"post-id":           postID,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return nil, fmt.Errorf("error uploading to minio: %w", err)
	}

	return &models.Image{
		ObjectKey:   key,
		URL:         m.public + "/" + key,
		ContentType: mtype.String(),
		Size:        size,
	}, nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectKey string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectKey,
		minio.RemoveObjectOptions{
			GovernanceBypass: true,
		})
	if err != nil {
		return fmt.Errorf("error deleting from minio: %w", err)
	}
	return nil
}
