package auth

import "github.com/mdobak/go-xerrors"

var (
	ErrInvalidCredentials = xerrors.Message("invalid email or password")
	ErrInvalidToken       = xerrors.Message("invalid or expired token")
	ErrAccountExists      = xerrors.Message("an account with the same email or username already exists")
	ErrInvalidInput       = xerrors.Message("invalid input")
)
