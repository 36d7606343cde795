package services

import (
	"errors"
	"fmt"

	"github.com/mdobak/go-xerrors"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = xerrors.Message("the requested record was not found")
	ErrConflict  = xerrors.Message("a record with the same unique value already exists")
	ErrForbidden = xerrors.Message("you are not allowed to do that")
	ErrInvalid   = xerrors.Message("invalid input")
)

// wrapError classifies a backend failure and attaches a stack trace.
func wrapError(action string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		err = ErrConflict
	}
	return xerrors.New(fmt.Errorf("unable to %s: %w", action, err))
}

func invalid(format string, args ...any) error {
	return xerrors.New(fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
