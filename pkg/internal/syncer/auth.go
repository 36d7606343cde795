package syncer

import (
	"context"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/auth"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

// AuthHook binds the client to an account session.
type AuthHook struct {
	c *Client
}

func (v *AuthHook) SignUp(ctx context.Context, in auth.SignUpInput) (models.Profile, error) {
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	v.c.Store.Auth.SetLoading(true)
	defer v.c.Store.Auth.SetLoading(false)

	profile, err := v.c.auth.SignUp(ctx, in)
	if err != nil {
		return profile, v.c.fail(v.c.Store.Auth.SetError, "sign up", err)
	}
	v.c.Toasts.Success("Account created, you can sign in now.")
	return profile, nil
}

// SignIn stores the session and opens the notification channel of the account.
func (v *AuthHook) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	v.c.Store.Auth.SetLoading(true)
	session, err := v.c.auth.SignIn(ctx, email, password)
	v.c.Store.Auth.SetLoading(false)
	if err != nil {
		return session, v.c.fail(v.c.Store.Auth.SetError, "sign in", err)
	}

	v.bind(ctx, session)
	return session, nil
}

// Restore binds an existing token, as a returning session does on load.
// The token is checked against the backend every time, so revoked and expired tokens stop working at once.
func (v *AuthHook) Restore(ctx context.Context, token string) (auth.Session, error) {
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	session, err := v.c.auth.GetSession(ctx, token)
	if err != nil {
		v.reset()
		return session, ErrUnauthenticated
	}
	v.bind(ctx, session)
	return session, nil
}

// Forget drops the bound account, used when a request no longer carries a token.
func (v *AuthHook) Forget() {
	if v.c.Store.Auth.UserID() != nil {
		v.reset()
	}
}

func (v *AuthHook) bind(ctx context.Context, session auth.Session) {
	previous := v.c.Store.Auth.UserID()
	same := previous != nil && *previous == session.Profile.ID
	if previous != nil && !same {
		v.reset()
	}
	v.c.Store.Auth.SetSession(session.Token, session.Profile)
	if same {
		return
	}
	if err := v.c.Notifications.Open(ctx); err != nil {
		log.Debug().Err(err).Msg("Unable to open notifications after signing in.")
	}
}

func (v *AuthHook) reset() {
	v.c.Detail.Clear()
	v.c.Notifications.Close()
	v.c.Likes.Reset()
	v.c.Store.ResetAccount()
}

// SignOut always forgets the local session, even when the backend call fails.
func (v *AuthHook) SignOut(ctx context.Context) error {
	token := v.c.Store.Auth.Token()
	defer v.reset()
	if len(token) == 0 {
		return nil
	}

	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()
	if err := v.c.auth.SignOut(ctx, token); err != nil {
		return v.c.notify("sign out", err)
	}
	return nil
}

func (v *AuthHook) RequestPasswordReset(ctx context.Context, email string) error {
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()
	if err := v.c.auth.RequestPasswordReset(ctx, email); err != nil {
		return v.c.notify("request password reset", err)
	}
	v.c.Toasts.Info("If the email belongs to an account, a reset link is on its way.")
	return nil
}

func (v *AuthHook) ResetPassword(ctx context.Context, token, password string) error {
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()
	if err := v.c.auth.ResetPassword(ctx, token, password); err != nil {
		return v.c.notify("reset password", err)
	}
	v.c.Toasts.Success("Password reset, please sign in again.")
	return nil
}

func (v *AuthHook) UpdatePassword(ctx context.Context, password string) error {
	if _, err := v.c.requireUser(); err != nil {
		return err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()
	if err := v.c.auth.UpdatePassword(ctx, v.c.Store.Auth.Token(), password); err != nil {
		return v.c.notify("update password", err)
	}
	v.c.Toasts.Success("Password updated.")
	return nil
}
