package minio

import (
	"context"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

type MockMinIOAPI struct {
	mock.Mock
}

func (m *MockMinIOAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockMinIOAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	args := m.Called(ctx, bucketName, opts)
	return args.Error(0)
}

func (m *MockMinIOAPI) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockMinIOAPI) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

type ClientTestSuite struct {
	suite.Suite
	mockAPI *MockMinIOAPI
	log     logging.Logger
}

func (s *ClientTestSuite) SetupTest() {
	s.mockAPI = new(MockMinIOAPI)
	s.log = logging.NewNopLogger()
}

func (s *ClientTestSuite) TestApplyDefaults() {
	cfg := &MinIOConfig{}
	applyDefaults(cfg)
	assert.Equal(s.T(), "us-east-1", cfg.Region)

	cfg = &MinIOConfig{Region: "eu-west-1"}
	applyDefaults(cfg)
	assert.Equal(s.T(), "eu-west-1", cfg.Region)
}

func (s *ClientTestSuite) TestNewMinIOClient_RequiresEndpoint() {
	_, err := NewMinIOClient(&MinIOConfig{}, s.log)
	require.Error(s.T(), err)
	assert.True(s.T(), errors.IsCode(err, errors.CodeInvalidParam))

	_, err = NewMinIOClient(nil, s.log)
	assert.Error(s.T(), err)
}

func (s *ClientTestSuite) TestNewMinIOClient_Lazy() {
	// No request is made at construction time.
	c, err := NewMinIOClient(&MinIOConfig{Endpoint: "127.0.0.1:1"}, s.log)
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), c.GetClient())
}

func (s *ClientTestSuite) TestEnsureBucket_Exists() {
	s.mockAPI.On("BucketExists", mock.Anything, "out").Return(true, nil).Once()
	c := NewMinIOClientWithAPI(s.mockAPI, &MinIOConfig{}, s.log)

	require.NoError(s.T(), c.EnsureBucket(context.Background(), "out"))
	// Cached after the first check.
	require.NoError(s.T(), c.EnsureBucket(context.Background(), "out"))
	s.mockAPI.AssertExpectations(s.T())
	s.mockAPI.AssertNotCalled(s.T(), "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ClientTestSuite) TestEnsureBucket_CreatesMissing() {
	s.mockAPI.On("BucketExists", mock.Anything, "out").Return(false, nil)
	s.mockAPI.On("MakeBucket", mock.Anything, "out", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)
	c := NewMinIOClientWithAPI(s.mockAPI, &MinIOConfig{CreateBuckets: true}, s.log)

	require.NoError(s.T(), c.EnsureBucket(context.Background(), "out"))
	s.mockAPI.AssertExpectations(s.T())
}

func (s *ClientTestSuite) TestEnsureBucket_MissingWithoutCreate() {
	s.mockAPI.On("BucketExists", mock.Anything, "out").Return(false, nil)
	c := NewMinIOClientWithAPI(s.mockAPI, &MinIOConfig{}, s.log)

	err := c.EnsureBucket(context.Background(), "out")
	require.Error(s.T(), err)
	assert.True(s.T(), errors.IsCode(err, errors.ErrCodeStorageError))
	assert.Contains(s.T(), err.Error(), "bucket=out")
}

func (s *ClientTestSuite) TestEnsureBucket_CheckFails() {
	s.mockAPI.On("BucketExists", mock.Anything, "out").Return(false, assert.AnError)
	c := NewMinIOClientWithAPI(s.mockAPI, &MinIOConfig{CreateBuckets: true}, s.log)

	err := c.EnsureBucket(context.Background(), "out")
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, assert.AnError)
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

//Personal.AI order the ending
