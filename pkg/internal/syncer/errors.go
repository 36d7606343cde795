package syncer

import (
	"context"
	"errors"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/auth"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
	"github.com/mdobak/go-xerrors"
)

var (
	ErrUnauthenticated = xerrors.Message("you must be logged in to do that")
	ErrClosed          = xerrors.Message("the client has been closed")
	ErrForbidden       = services.ErrForbidden
)

// Message is the human readable text surfaced for an error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsQuiet reports the errors that set the error flag without a toast.
func IsQuiet(err error) bool {
	return services.IsNotFound(err) || errors.Is(err, context.Canceled) || errors.Is(err, ErrClosed)
}

// IsLocal reports the errors raised before any remote call.
func IsLocal(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, services.ErrInvalid) ||
		errors.Is(err, auth.ErrInvalidInput)
}
