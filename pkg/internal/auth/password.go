package auth

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
	"github.com/mdobak/go-xerrors"
	"golang.org/x/crypto/bcrypt"
)

const (
	PasswordCost      = 12
	MinPasswordLength = 6
)

func HashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return nil, xerrors.New(err)
	}
	return hash, nil
}

func IsPasswordMatch(hash []byte, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, xerrors.New(err)
	}
	return true, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateCredentials runs the local sign-up preconditions before any remote call.
func ValidateCredentials(email, username, password string) error {
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return xerrors.New(fmt.Errorf("%w: email address is malformed", ErrInvalidInput))
	}
	if !services.UsernamePattern.MatchString(username) {
		return xerrors.New(fmt.Errorf("%w: username must be 3 to 32 lowercase letters, digits or underscores", ErrInvalidInput))
	}
	return ValidatePassword(password)
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return xerrors.New(fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength))
	}
	return nil
}
