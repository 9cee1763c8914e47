// Package archive copies published videos to an S3 bucket
package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/gnzdotmx/lessonflowai/internal/config"
	"github.com/gnzdotmx/lessonflowai/internal/production"
	"github.com/gnzdotmx/lessonflowai/internal/utils"
)

type uploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// S3Archiver uploads files under bucket/prefix
type S3Archiver struct {
	uploader uploader
	bucket   string
	prefix   string
}

var _ production.Archiver = (*S3Archiver)(nil)

// New returns an S3Archiver, or nil when no bucket is configured
func New(cfg config.ArchiveConfig) (*S3Archiver, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Region)})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &S3Archiver{
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// Key returns the object key used for localPath
func (a *S3Archiver) Key(localPath string) string {
	return path.Join(a.prefix, filepath.Base(localPath))
}

// Archive uploads the file at localPath
func (a *S3Archiver) Archive(ctx context.Context, localPath string) error {
	if a == nil || a.uploader == nil {
		return errors.New("archive is not configured")
	}
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer func() {
		_ = file.Close()
	}()

	key := a.Key(localPath)
	out, err := a.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType(localPath)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to s3://%s/%s: %w", localPath, a.bucket, key, err)
	}
	utils.LogVerbose("Archived %s to %s", localPath, out.Location)
	return nil
}

func contentType(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".mp4":
		return "video/mp4"
	case ".png":
		return "image/png"
	case ".mp3":
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}
