package minio

import (
	"context"
	"io"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

// MinIOAPI is the subset of the MinIO SDK the object store uses. GetObject
// returns a plain io.ReadCloser so tests can serve objects from memory.
type MinIOAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
}

// sdkClient adapts *minio.Client to MinIOAPI.
type sdkClient struct {
	*minio.Client
}

func (c sdkClient) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := c.Client.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Region          string `mapstructure:"region"`
	// CreateBuckets makes missing output buckets on first write.
	CreateBuckets bool `mapstructure:"create_buckets"`
}

type MinIOClient struct {
	client MinIOAPI
	config *MinIOConfig
	logger logging.Logger

	mu      sync.Mutex
	checked map[string]bool
}

// NewMinIOClient builds a client for cfg. The SDK connects lazily, so an
// unreachable endpoint surfaces on the first Get or Put.
func NewMinIOClient(cfg *MinIOConfig, log logging.Logger) (*MinIOClient, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, errors.InvalidParam("minio endpoint is required")
	}
	applyDefaults(cfg)
	if log == nil {
		log = logging.NewNopLogger()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create minio client")
	}

	log.Info("MinIO client configured", logging.String("endpoint", cfg.Endpoint), logging.Bool("ssl", cfg.UseSSL))
	return NewMinIOClientWithAPI(sdkClient{client}, cfg, log), nil
}

// NewMinIOClientWithAPI wraps an existing MinIOAPI implementation.
func NewMinIOClientWithAPI(api MinIOAPI, cfg *MinIOConfig, log logging.Logger) *MinIOClient {
	if cfg == nil {
		cfg = &MinIOConfig{}
	}
	applyDefaults(cfg)
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &MinIOClient{
		client:  api,
		config:  cfg,
		logger:  log,
		checked: make(map[string]bool),
	}
}

func applyDefaults(cfg *MinIOConfig) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
}

// EnsureBucket creates bucket when it is missing and CreateBuckets is set.
// Each bucket is checked once per client.
func (c *MinIOClient) EnsureBucket(ctx context.Context, bucket string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.checked[bucket] {
		return nil
	}

	exists, err := c.client.BucketExists(ctx, bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to check bucket existence").WithDetail("bucket=" + bucket)
	}
	if !exists {
		if !c.config.CreateBuckets {
			return errors.New(errors.ErrCodeStorageError, "bucket does not exist").WithDetail("bucket=" + bucket)
		}
		if err := c.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
			return errors.Wrap(err, errors.ErrCodeStorageError, "failed to create bucket").WithDetail("bucket=" + bucket)
		}
		c.logger.Info("Created bucket", logging.String("bucket", bucket))
	}
	c.checked[bucket] = true
	return nil
}

func (c *MinIOClient) GetClient() MinIOAPI {
	return c.client
}

//Personal.AI order the ending
