package exts

import (
	"context"
	"errors"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/auth"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/storage"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/syncer"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// StatusOf maps an error raised below the transport to its HTTP status.
func StatusOf(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrConflict), errors.Is(err, auth.ErrAccountExists):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalid), errors.Is(err, auth.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, syncer.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, storage.ErrUnsupportedType):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, storage.ErrTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, syncer.ErrNoBucket):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, syncer.ErrClosed):
		return fiber.StatusRequestTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("An error occurred when handling request...")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
