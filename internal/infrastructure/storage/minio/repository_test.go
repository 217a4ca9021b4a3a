package minio

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

// failingReader fails on the first read the way the SDK reports a missing key.
type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }
func (failingReader) Close() error               { return nil }

type RepositoryTestSuite struct {
	suite.Suite
	mockAPI *MockMinIOAPI
	repo    ObjectStore
	loc     Location
}

func (s *RepositoryTestSuite) SetupTest() {
	s.mockAPI = new(MockMinIOAPI)
	log := logging.NewNopLogger()
	s.repo = NewMinIORepository(NewMinIOClientWithAPI(s.mockAPI, &MinIOConfig{CreateBuckets: true}, log), log)
	s.loc = Location{Bucket: "papers", Key: "in/abstracts.xlsx"}
}

func (s *RepositoryTestSuite) TestGet_Success() {
	s.mockAPI.On("GetObject", mock.Anything, "papers", "in/abstracts.xlsx", mock.Anything).
		Return(io.NopCloser(strings.NewReader("workbook")), nil)

	data, err := s.repo.Get(context.Background(), s.loc)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "workbook", string(data))
}

func (s *RepositoryTestSuite) TestGet_NotFoundOnRead() {
	s.mockAPI.On("GetObject", mock.Anything, "papers", "in/abstracts.xlsx", mock.Anything).
		Return(failingReader{err: minio.ErrorResponse{Code: "NoSuchKey"}}, nil)

	_, err := s.repo.Get(context.Background(), s.loc)
	require.Error(s.T(), err)
	assert.True(s.T(), errors.IsCode(err, errors.ErrCodeNotFound))
	assert.Contains(s.T(), err.Error(), "s3://papers/in/abstracts.xlsx")
}

func (s *RepositoryTestSuite) TestGet_RequestFails() {
	s.mockAPI.On("GetObject", mock.Anything, "papers", "in/abstracts.xlsx", mock.Anything).
		Return(nil, assert.AnError)

	_, err := s.repo.Get(context.Background(), s.loc)
	require.Error(s.T(), err)
	assert.True(s.T(), errors.IsCode(err, errors.ErrCodeStorageError))
}

func (s *RepositoryTestSuite) TestPut_Success() {
	s.mockAPI.On("BucketExists", mock.Anything, "papers").Return(true, nil)
	s.mockAPI.On("PutObject", mock.Anything, "papers", "out/a.xlsx", mock.Anything, int64(4),
		minio.PutObjectOptions{ContentType: "application/test"}).
		Return(minio.UploadInfo{Bucket: "papers", Key: "out/a.xlsx", Size: 4}, nil)

	err := s.repo.Put(context.Background(), Location{Bucket: "papers", Key: "out/a.xlsx"}, []byte("data"), "application/test")
	require.NoError(s.T(), err)
	s.mockAPI.AssertExpectations(s.T())
}

func (s *RepositoryTestSuite) TestPut_DetectsContentType() {
	s.mockAPI.On("BucketExists", mock.Anything, "papers").Return(true, nil)
	s.mockAPI.On("PutObject", mock.Anything, "papers", "notes.txt", mock.Anything, int64(5),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"}).
		Return(minio.UploadInfo{}, nil)

	err := s.repo.Put(context.Background(), Location{Bucket: "papers", Key: "notes.txt"}, []byte("hello"), "")
	require.NoError(s.T(), err)
	s.mockAPI.AssertExpectations(s.T())
}

func (s *RepositoryTestSuite) TestPut_UploadFails() {
	s.mockAPI.On("BucketExists", mock.Anything, "papers").Return(true, nil)
	s.mockAPI.On("PutObject", mock.Anything, "papers", "out/a.xlsx", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, assert.AnError)

	err := s.repo.Put(context.Background(), Location{Bucket: "papers", Key: "out/a.xlsx"}, []byte("data"), "x")
	require.Error(s.T(), err)
	assert.True(s.T(), errors.IsCode(err, errors.ErrCodeStorageError))
	assert.ErrorIs(s.T(), err, assert.AnError)
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("s3://papers/in/abstracts.xlsx")
	require.NoError(t, err)
	assert.Equal(t, Location{Bucket: "papers", Key: "in/abstracts.xlsx"}, loc)
	assert.Equal(t, "s3://papers/in/abstracts.xlsx", loc.String())

	for _, bad := range []string{"papers/a.xlsx", "s3://", "s3://papers", "s3://papers/", "s3:///a.xlsx", "s3://papers/dir/"} {
		_, err := ParseLocation(bad)
		assert.Error(t, err, bad)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidParam), bad)
	}
}

func TestIsObjectLocation(t *testing.T) {
	assert.True(t, IsObjectLocation("s3://b/k"))
	assert.False(t, IsObjectLocation("/tmp/a.xlsx"))
	assert.False(t, IsObjectLocation("a.xlsx"))
}

//Personal.AI order the ending
