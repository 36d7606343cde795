package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Service is the email and password authentication backend.
type Service struct {
	db       *gorm.DB
	secret   []byte
	ttl      time.Duration
	resetTTL time.Duration
}

func NewService(db *gorm.DB, secret string, ttl, resetTTL time.Duration) *Service {
	return &Service{db: db, secret: []byte(secret), ttl: ttl, resetTTL: resetTTL}
}

type Session struct {
	Token     string         `json:"token"`
	ExpiredAt time.Time      `json:"expired_at"`
	Account   models.Account `json:"account"`
	Profile   models.Profile `json:"profile"`
}

type SignUpInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6"`
}

func (v *Service) conn(ctx context.Context) *gorm.DB {
	return v.db.WithContext(ctx)
}

// SignUp creates the account and its profile together.
func (v *Service) SignUp(ctx context.Context, in SignUpInput) (models.Profile, error) {
	email := NormalizeEmail(in.Email)
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if err := ValidateCredentials(email, username, in.Password); err != nil {
		return models.Profile{}, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return models.Profile{}, err
	}

	var profile models.Profile
	err = v.conn(ctx).Transaction(func(tx *gorm.DB) error {
		account := models.Account{Email: email, Password: hash}
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		profile = models.Profile{
			ID:       account.ID,
			Username: username,
			Role:     models.ProfileRoleUser,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return profile, xerrors.New(ErrAccountExists)
		}
		return profile, xerrors.New(fmt.Errorf("unable to sign up: %w", err))
	}

	log.Info().Uint("account", profile.ID).Str("username", profile.Username).Msg("A new account has been created.")
	return profile, nil
}

func (v *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	var account models.Account
	if err := v.conn(ctx).Where("email = ?", NormalizeEmail(email)).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, xerrors.New(ErrInvalidCredentials)
		}
		return Session{}, xerrors.New(fmt.Errorf("unable to sign in: %w", err))
	}

	if ok, err := IsPasswordMatch(account.Password, password); err != nil {
		return Session{}, err
	} else if !ok {
		return Session{}, xerrors.New(ErrInvalidCredentials)
	}

	record := models.AuthSession{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		ExpiredAt: time.Now().Add(v.ttl),
	}
	if err := v.conn(ctx).Create(&record).Error; err != nil {
		return Session{}, xerrors.New(fmt.Errorf("unable to create session: %w", err))
	}

	token, err := v.signToken(record.ID, account.ID, record.ExpiredAt)
	if err != nil {
		return Session{}, err
	}

	var profile models.Profile
	if err := v.conn(ctx).Where("id = ?", account.ID).First(&profile).Error; err != nil {
		return Session{}, xerrors.New(fmt.Errorf("unable to load profile: %w", err))
	}

	return Session{Token: token, ExpiredAt: record.ExpiredAt, Account: account, Profile: profile}, nil
}

// GetSession resolves a token into its live session. Revoked and expired sessions are rejected.
func (v *Service) GetSession(ctx context.Context, token string) (Session, error) {
	claims, err := v.parseToken(token)
	if err != nil {
		return Session{}, err
	}

	var record models.AuthSession
	if err := v.conn(ctx).
		Where("id = ? AND account_id = ?", claims.ID, claims.AccountID).
		Where("revoked_at IS NULL AND expired_at > ?", time.Now()).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, xerrors.New(ErrInvalidToken)
		}
		return Session{}, xerrors.New(fmt.Errorf("unable to get session: %w", err))
	}

	var account models.Account
	if err := v.conn(ctx).Where("id = ?", record.AccountID).First(&account).Error; err != nil {
		return Session{}, xerrors.New(fmt.Errorf("unable to load account: %w", err))
	}
	var profile models.Profile
	if err := v.conn(ctx).Where("id = ?", record.AccountID).First(&profile).Error; err != nil {
		return Session{}, xerrors.New(fmt.Errorf("unable to load profile: %w", err))
	}

	return Session{Token: token, ExpiredAt: record.ExpiredAt, Account: account, Profile: profile}, nil
}

func (v *Service) SignOut(ctx context.Context, token string) error {
	claims, err := v.parseToken(token)
	if err != nil {
		return err
	}
	if err := v.conn(ctx).Model(&models.AuthSession{}).
		Where("id = ? AND revoked_at IS NULL", claims.ID).
		Update("revoked_at", time.Now()).Error; err != nil {
		return xerrors.New(fmt.Errorf("unable to sign out: %w", err))
	}
	return nil
}

// RequestPasswordReset issues a single-use reset token. Unknown emails are
// accepted silently so the endpoint does not reveal which accounts exist.
func (v *Service) RequestPasswordReset(ctx context.Context, email string) error {
	var account models.Account
	if err := v.conn(ctx).Where("email = ?", NormalizeEmail(email)).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Debug().Str("email", email).Msg("Password reset requested for an unknown email, skipping...")
			return nil
		}
		return xerrors.New(fmt.Errorf("unable to request password reset: %w", err))
	}

	token := uuid.NewString()
	if err := v.conn(ctx).Model(&account).Updates(map[string]any{
		"reset_token":            token,
		"reset_token_expired_at": time.Now().Add(v.resetTTL),
	}).Error; err != nil {
		return xerrors.New(fmt.Errorf("unable to request password reset: %w", err))
	}

	// No mailer is configured, the operator hands the token over.
	log.Info().Uint("account", account.ID).Str("token", token).Msg("Issued a password reset token.")
	return nil
}

func (v *Service) ResetPassword(ctx context.Context, token, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	err = v.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.
			Where("reset_token = ? AND reset_token_expired_at > ?", token, time.Now()).
			First(&account).Error; err != nil {
			return err
		}
		if err := tx.Model(&account).Updates(map[string]any{
			"password":               hash,
			"reset_token":            nil,
			"reset_token_expired_at": nil,
		}).Error; err != nil {
			return err
		}
		return revokeAll(tx, account.ID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return xerrors.New(ErrInvalidToken)
	} else if err != nil {
		return xerrors.New(fmt.Errorf("unable to reset password: %w", err))
	}
	return nil
}

// UpdatePassword changes the password of a signed in account and keeps the current session alive.
func (v *Service) UpdatePassword(ctx context.Context, token, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	session, err := v.GetSession(ctx, token)
	if err != nil {
		return err
	}
	claims, err := v.parseToken(token)
	if err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	err = v.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Account{}).
			Where("id = ?", session.Account.ID).
			Update("password", hash).Error; err != nil {
			return err
		}
		return revokeAll(tx, session.Account.ID, claims.ID)
	})
	if err != nil {
		return xerrors.New(fmt.Errorf("unable to update password: %w", err))
	}
	return nil
}

// CleanupExpired drops sessions that can no longer be used.
func (v *Service) CleanupExpired(ctx context.Context) (int64, error) {
	result := v.conn(ctx).
		Where("expired_at < ? OR revoked_at < ?", time.Now(), time.Now().Add(-v.ttl)).
		Delete(&models.AuthSession{})
	if result.Error != nil {
		return 0, xerrors.New(fmt.Errorf("unable to cleanup sessions: %w", result.Error))
	}
	return result.RowsAffected, nil
}

func revokeAll(tx *gorm.DB, account uint, except ...string) error {
	query := tx.Model(&models.AuthSession{}).
		Where("account_id = ? AND revoked_at IS NULL", account)
	if len(except) > 0 {
		query = query.Where("id NOT IN ?", lo.Uniq(except))
	}
	return query.Update("revoked_at", time.Now()).Error
}
