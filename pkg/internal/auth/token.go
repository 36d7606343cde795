package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdobak/go-xerrors"
)

const tokenIssuer = "scribe"

type SessionClaims struct {
	AccountID uint `json:"aid"`

	jwt.RegisteredClaims
}

func (v *Service) signToken(sessionID string, account uint, expiredAt time.Time) (string, error) {
	claims := SessionClaims{
		AccountID: account,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    tokenIssuer,
			Subject:   strconv.Itoa(int(account)),
			ExpiresAt: jwt.NewNumericDate(expiredAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", xerrors.New(err)
	}
	return signed, nil
}

func (v *Service) parseToken(raw string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, xerrors.New(fmt.Errorf("%w: %v", ErrInvalidToken, err))
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || len(claims.ID) == 0 {
		return nil, xerrors.New(ErrInvalidToken)
	}
	return claims, nil
}
