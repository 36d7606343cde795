package syncer

import (
	"context"
	"io"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
	"github.com/mdobak/go-xerrors"
)

var ErrNoBucket = xerrors.Message("file uploads are not configured")

// ProfileHook loads public profiles and edits the signed in user's own one.
type ProfileHook struct {
	c       *Client
	tracker tracker
}

func (v *ProfileHook) Status() Status {
	return v.tracker.Status()
}

// Load shows the profile by username. A missing profile only sets the error flag.
func (v *ProfileHook) Load(ctx context.Context, username string) (models.Profile, error) {
	users := v.c.Store.Users

	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()
	ctx, gen := v.tracker.begin(ctx)
	users.SetLoading(true)

	profile, err := v.c.remote.GetProfileByUsername(ctx, username)
	if !v.tracker.finish(gen, err) {
		return profile, nil
	}
	users.SetLoading(false)
	if err != nil {
		users.SetCurrent(nil)
		return profile, v.c.fail(users.SetError, "load profile", err)
	}
	users.SetCurrent(&profile)
	return profile, nil
}

func (v *ProfileHook) Update(ctx context.Context, in services.ProfileInput) (models.Profile, error) {
	current, err := v.c.requireUser()
	if err != nil {
		return current, err
	}
	if err := v.c.check(in); err != nil {
		return current, err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	profile, err := v.c.remote.UpdateProfile(ctx, current.ID, in)
	if err != nil {
		return profile, v.c.notify("update profile", err)
	}
	v.c.Store.Auth.SetProfile(profile)
	v.c.Store.Users.Upsert(profile)
	v.c.Toasts.Success("Profile updated.")
	return profile, nil
}

// UploadAvatar stores the image and points the profile at it.
func (v *ProfileHook) UploadAvatar(ctx context.Context, filename, contentType string, r io.Reader) (models.Profile, error) {
	if _, err := v.c.requireUser(); err != nil {
		return models.Profile{}, err
	}
	url, err := v.upload(ctx, "avatars", filename, contentType, r)
	if err != nil {
		return models.Profile{}, err
	}
	return v.Update(ctx, services.ProfileInput{AvatarURL: &url})
}

// UploadCover stores a post cover and hands its URL back to the editor.
func (v *ProfileHook) UploadCover(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	if _, err := v.c.requireUser(); err != nil {
		return "", err
	}
	return v.upload(ctx, "covers", filename, contentType, r)
}

func (v *ProfileHook) upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	if v.c.bucket == nil {
		return "", v.c.notify("upload file", ErrNoBucket)
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	url, err := v.c.bucket.Upload(ctx, folder, filename, contentType, r)
	if err != nil {
		return "", v.c.notify("upload file", err)
	}
	return url, nil
}
