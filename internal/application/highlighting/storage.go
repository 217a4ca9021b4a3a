package highlighting

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/turtacn/GeneHighlighter/internal/infrastructure/storage/minio"
	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Storage reads and writes workbooks on the local file system or, for
// s3://bucket/key locations, in object storage.
type Storage struct {
	objects minio.ObjectStore
}

// NewStorage returns a Storage. objects may be nil, in which case object
// locations are rejected.
func NewStorage(objects minio.ObjectStore) *Storage {
	return &Storage{objects: objects}
}

// Read loads the workbook at location. Every failure is an input error.
func (s *Storage) Read(ctx context.Context, location string) ([]byte, error) {
	if !minio.IsObjectLocation(location) {
		data, err := os.ReadFile(location)
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return nil, errors.Input("input file not found").WithDetail("path=" + location)
			}
			return nil, errors.Wrap(err, errors.ErrCodeInput, "cannot read input file").WithDetail("path=" + location)
		}
		return data, nil
	}

	loc, err := s.objectLocation(location)
	if err != nil {
		return nil, err
	}
	data, err := s.objects.Get(ctx, loc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInput, "cannot read input object").WithDetail("location=" + location)
	}
	return data, nil
}

// Write stores data at location, creating local parent directories.
func (s *Storage) Write(ctx context.Context, location string, data []byte) error {
	if !minio.IsObjectLocation(location) {
		if dir := filepath.Dir(location); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrap(err, errors.ErrCodeInput, "cannot create output directory").WithDetail("path=" + dir)
			}
		}
		if err := os.WriteFile(location, data, 0o644); err != nil {
			return errors.Wrap(err, errors.ErrCodeInput, "cannot write output file").WithDetail("path=" + location)
		}
		return nil
	}

	loc, err := s.objectLocation(location)
	if err != nil {
		return err
	}
	return s.objects.Put(ctx, loc, data, xlsxContentType)
}

func (s *Storage) objectLocation(location string) (minio.Location, error) {
	if s.objects == nil {
		return minio.Location{}, errors.Input("object storage is not configured").WithDetail("location=" + location)
	}
	loc, err := minio.ParseLocation(location)
	if err != nil {
		return minio.Location{}, errors.Wrap(err, errors.ErrCodeInput, "invalid object location")
	}
	return loc, nil
}

// OutputPath derives "<base><suffix>.xlsx" from input, keeping its directory
// or bucket.
func OutputPath(input, suffix string) string {
	ext := filepath.Ext(input)
	if minio.IsObjectLocation(input) {
		ext = path.Ext(input)
	}
	return strings.TrimSuffix(input, ext) + suffix + ".xlsx"
}

//Personal.AI order the ending
