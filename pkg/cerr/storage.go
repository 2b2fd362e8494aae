package cerr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskroster/taskroster/pkg/storage"
)

func WrapStorageReadError(target string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return NewError(NotFound, fmt.Sprintf("%s not found", target), err)
	}
	return NewError(Internal, "server error", fmt.Errorf("failed to read %s: %w", target, err))
}

func WrapStorageWriteError(target string, err error) error {
	return NewError(Internal, "server error", fmt.Errorf("failed to write %s: %w", target, err))
}

// WrapDBReadError converts a gorm query error. A missing row becomes NotFound.
func WrapDBReadError(target string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewError(NotFound, fmt.Sprintf("%s not found", target), err)
	}
	return NewError(Internal, "server error", fmt.Errorf("failed to read %s: %w", target, err))
}

// WrapDBWriteError converts a gorm write error. Unique constraint violations
// become AlreadyExists; the database must be opened with TranslateError.
func WrapDBWriteError(target string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return NewError(AlreadyExists, fmt.Sprintf("%s already exists", target), err)
	}
	return NewError(Internal, "server error", fmt.Errorf("failed to write %s: %w", target, err))
}
