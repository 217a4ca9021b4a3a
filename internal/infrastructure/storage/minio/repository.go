package minio

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

// Scheme prefixes object locations.
const Scheme = "s3://"

var (
	ErrObjectNotFound  = errors.New(errors.ErrCodeNotFound, "object not found")
	ErrInvalidLocation = errors.New(errors.CodeInvalidParam, "invalid object location")
)

// Location addresses one object.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return Scheme + l.Bucket + "/" + l.Key
}

// IsObjectLocation reports whether path names an object rather than a file.
func IsObjectLocation(path string) bool {
	return strings.HasPrefix(path, Scheme)
}

// ParseLocation splits "s3://bucket/key" into its parts.
func ParseLocation(path string) (Location, error) {
	if !IsObjectLocation(path) {
		return Location{}, ErrInvalidLocation.WithDetail("path=" + path)
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(path, Scheme), "/")
	if !ok || bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return Location{}, ErrInvalidLocation.WithDetail("path=" + path)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// ObjectStore reads and writes whole objects.
type ObjectStore interface {
	Get(ctx context.Context, loc Location) ([]byte, error)
	Put(ctx context.Context, loc Location, data []byte, contentType string) error
}

type minioRepository struct {
	client *MinIOClient
	logger logging.Logger
}

func NewMinIORepository(client *MinIOClient, log logging.Logger) ObjectStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &minioRepository{client: client, logger: log}
}

func (r *minioRepository) Get(ctx context.Context, loc Location) ([]byte, error) {
	obj, err := r.client.GetClient().GetObject(ctx, loc.Bucket, loc.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, r.mapError(err, loc, "download failed")
	}
	defer obj.Close()

	// The SDK defers the request until the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, r.mapError(err, loc, "download failed")
	}
	r.logger.Debug("object downloaded", logging.String("location", loc.String()), logging.Int("bytes", len(data)))
	return data, nil
}

func (r *minioRepository) Put(ctx context.Context, loc Location, data []byte, contentType string) error {
	if err := r.client.EnsureBucket(ctx, loc.Bucket); err != nil {
		return err
	}
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(512, len(data))])
	}

	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := r.client.GetClient().PutObject(ctx, loc.Bucket, loc.Key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return r.mapError(err, loc, "upload failed")
	}
	r.logger.Debug("object uploaded", logging.String("location", loc.String()), logging.Int("bytes", len(data)))
	return nil
}

func (r *minioRepository) mapError(err error, loc Location, msg string) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return ErrObjectNotFound.WithCause(err).WithDetail("location=" + loc.String())
	}
	return errors.Wrap(err, errors.ErrCodeStorageError, msg).WithDetail("location=" + loc.String())
}

//Personal.AI order the ending
