package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/realtime"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/store"
	"github.com/rs/zerolog/log"
)

type Config struct {
	PageSize           int
	NotificationLimit  int
	FeaturedCount      int
	LikeReconcileDelay time.Duration
}

func (v Config) withDefaults() Config {
	if v.PageSize <= 0 {
		v.PageSize = 10
	}
	if v.NotificationLimit <= 0 {
		v.NotificationLimit = 50
	}
	if v.FeaturedCount <= 0 {
		v.FeaturedCount = 5
	}
	if v.LikeReconcileDelay <= 0 {
		v.LikeReconcileDelay = 500 * time.Millisecond
	}
	return v
}

type Options struct {
	Store    *store.Store
	Remote   Remote
	Auth     Authenticator
	Bucket   Uploader
	Realtime realtime.Subscriber
	Config   Config
}

// Client is the synchronized state of one session together with the hooks that keep it fresh.
type Client struct {
	Store  *store.Store
	Toasts *Toaster

	remote   Remote
	auth     Authenticator
	bucket   Uploader
	realtime realtime.Subscriber
	config   Config

	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once

	Feed          *PostsFeed
	Detail        *PostDetail
	Comments      *CommentsHook
	Likes         *LikeHook
	Notifications *NotificationsHook
	Taxonomy      *TaxonomyHook
	Profiles      *ProfileHook
	Social        *SocialHook
	Bookmarks     *BookmarksHook
	Session       *AuthHook
	Admin         *AdminHook
}

func New(opts Options) *Client {
	if opts.Store == nil {
		opts.Store = store.New(nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	v := &Client{
		Store:    opts.Store,
		Toasts:   &Toaster{},
		remote:   opts.Remote,
		auth:     opts.Auth,
		bucket:   opts.Bucket,
		realtime: opts.Realtime,
		config:   opts.Config.withDefaults(),
		ctx:      ctx,
		cancel:   cancel,
	}

	v.Feed = &PostsFeed{c: v}
	v.Detail = &PostDetail{c: v}
	v.Comments = &CommentsHook{c: v}
	v.Likes = &LikeHook{c: v, timers: make(map[uint]*time.Timer)}
	v.Notifications = &NotificationsHook{c: v}
	v.Taxonomy = &TaxonomyHook{c: v}
	v.Profiles = &ProfileHook{c: v}
	v.Social = &SocialHook{c: v}
	v.Bookmarks = &BookmarksHook{c: v}
	v.Session = &AuthHook{c: v}
	v.Admin = &AdminHook{c: v}
	return v
}

// Close stops every hook, subscription and timer of the client.
func (v *Client) Close() {
	v.closeOnce.Do(func() {
		v.cancel()
		v.Comments.Close()
		v.Notifications.Close()
		v.Likes.Close()
		v.Feed.tracker.stop()
		v.Detail.tracker.stop()
		v.Taxonomy.tracker.stop()
		v.Profiles.tracker.stop()
		v.Social.tracker.stop()
		v.Bookmarks.tracker.stop()
		v.Admin.posts.stop()
		v.Admin.users.stop()
	})
}

func (v *Client) Closed() bool {
	return v.ctx.Err() != nil
}

// lifetime joins the caller's context with the client's, whichever ends first.
func (v *Client) lifetime(ctx context.Context) (context.Context, context.CancelFunc) {
	joined, cancel := context.WithCancel(ctx)
	if v.Closed() {
		cancel()
		return joined, cancel
	}
	stop := context.AfterFunc(v.ctx, cancel)
	return joined, func() {
		stop()
		cancel()
	}
}

func (v *Client) viewer() (*models.Profile, *uint) {
	id := v.Store.Auth.UserID()
	if id == nil {
		return nil, nil
	}
	return v.Store.Auth.Profile(), id
}

// requireUser rejects the action locally when nobody is signed in.
func (v *Client) requireUser() (models.Profile, error) {
	profile, id := v.viewer()
	if id == nil || profile == nil {
		v.Toasts.Error(Message(ErrUnauthenticated))
		return models.Profile{}, ErrUnauthenticated
	}
	return *profile, nil
}

func (v *Client) requireAdmin() (models.Profile, error) {
	profile, err := v.requireUser()
	if err != nil {
		return profile, err
	}
	if !profile.IsAdmin() {
		v.Toasts.Error(Message(ErrForbidden))
		return profile, ErrForbidden
	}
	return profile, nil
}

// fail records the error on a slice and toasts it unless it is a quiet one.
func (v *Client) fail(setError func(message string), action string, err error) error {
	if err == nil {
		return nil
	}
	err = v.settle(err)
	setError(Message(err))
	if !IsQuiet(err) {
		v.Toasts.Error(Message(err))
	}
	log.Debug().Err(err).Str("action", action).Msg("A sync action failed.")
	return err
}

// notify toasts an error of a mutator, whose slice flags stay untouched.
func (v *Client) notify(action string, err error) error {
	if err == nil {
		return nil
	}
	err = v.settle(err)
	if !IsQuiet(err) {
		v.Toasts.Error(Message(err))
	}
	log.Debug().Err(err).Str("action", action).Msg("A sync mutation failed.")
	return err
}

// settle reports a call cut short by Close as ErrClosed.
func (v *Client) settle(err error) error {
	if v.Closed() && errors.Is(err, context.Canceled) {
		return ErrClosed
	}
	return err
}

// SetTheme stores the theme preference.
func (v *Client) SetTheme(mode string) error {
	if !v.Store.Theme.Set(mode) {
		v.Toasts.Error("Unknown theme.")
		return services.ErrInvalid
	}
	return nil
}
