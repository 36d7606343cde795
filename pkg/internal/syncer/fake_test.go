package syncer

import (
	"context"
	"sync"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/auth"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/realtime"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/store"
)

// fakeRemote implements the calls a test sets up. Anything else panics through the nil Remote.
type fakeRemote struct {
	Remote

	mu    sync.Mutex
	calls map[string]int

	listPosts     func(ctx context.Context, filter services.PostFilter) (services.Page[models.Post], error)
	getPostBySlug func(ctx context.Context, slug string) (models.Post, error)
	createPost    func(ctx context.Context, author uint, in services.PostInput) (models.Post, error)
	updatePost    func(ctx context.Context, id uint, in services.PostInput) (models.Post, error)
	deletePost    func(ctx context.Context, id uint) error
	listComments  func(ctx context.Context, post uint) ([]models.Comment, error)
	getComment    func(ctx context.Context, id uint) (models.Comment, error)
	createComment func(ctx context.Context, in services.CommentInput) (models.Comment, error)
	getLikeStatus func(ctx context.Context, post, user uint) (services.LikeStatus, error)
	likePost      func(ctx context.Context, post, user uint) error
	unlikePost    func(ctx context.Context, post, user uint) error
	listNotes     func(ctx context.Context, user uint) ([]models.Notification, error)
	getNote       func(ctx context.Context, id uint) (models.Notification, error)
	markAllRead   func(ctx context.Context, user uint) error
}

func (v *fakeRemote) record(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.calls == nil {
		v.calls = make(map[string]int)
	}
	v.calls[name]++
}

func (v *fakeRemote) count(name string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls[name]
}

func (v *fakeRemote) total() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out int
	for _, n := range v.calls {
		out += n
	}
	return out
}

func (v *fakeRemote) ListPosts(ctx context.Context, filter services.PostFilter) (services.Page[models.Post], error) {
	v.record("ListPosts")
	return v.listPosts(ctx, filter)
}

func (v *fakeRemote) GetPostBySlug(ctx context.Context, slug string, _ *models.Profile) (models.Post, error) {
	v.record("GetPostBySlug")
	return v.getPostBySlug(ctx, slug)
}

func (v *fakeRemote) CreatePost(ctx context.Context, author uint, in services.PostInput) (models.Post, error) {
	v.record("CreatePost")
	return v.createPost(ctx, author, in)
}

func (v *fakeRemote) UpdatePost(ctx context.Context, id uint, _ models.Profile, in services.PostInput) (models.Post, error) {
	v.record("UpdatePost")
	return v.updatePost(ctx, id, in)
}

func (v *fakeRemote) DeletePost(ctx context.Context, id uint, _ models.Profile) error {
	v.record("DeletePost")
	return v.deletePost(ctx, id)
}

func (v *fakeRemote) ListComments(ctx context.Context, post uint) ([]models.Comment, error) {
	v.record("ListComments")
	return v.listComments(ctx, post)
}

func (v *fakeRemote) GetComment(ctx context.Context, id uint) (models.Comment, error) {
	v.record("GetComment")
	return v.getComment(ctx, id)
}

func (v *fakeRemote) CreateComment(ctx context.Context, _ uint, in services.CommentInput) (models.Comment, error) {
	v.record("CreateComment")
	return v.createComment(ctx, in)
}

func (v *fakeRemote) GetLikeStatus(ctx context.Context, post, user uint) (services.LikeStatus, error) {
	v.record("GetLikeStatus")
	return v.getLikeStatus(ctx, post, user)
}

func (v *fakeRemote) LikePost(ctx context.Context, post, user uint) error {
	v.record("LikePost")
	return v.likePost(ctx, post, user)
}

func (v *fakeRemote) UnlikePost(ctx context.Context, post, user uint) error {
	v.record("UnlikePost")
	return v.unlikePost(ctx, post, user)
}

func (v *fakeRemote) ListNotifications(ctx context.Context, user uint, _ int) ([]models.Notification, error) {
	v.record("ListNotifications")
	return v.listNotes(ctx, user)
}

func (v *fakeRemote) GetNotification(ctx context.Context, id uint) (models.Notification, error) {
	v.record("GetNotification")
	return v.getNote(ctx, id)
}

func (v *fakeRemote) MarkAllNotificationsRead(ctx context.Context, user uint) error {
	v.record("MarkAllNotificationsRead")
	return v.markAllRead(ctx, user)
}

// fakeAuth resolves the tokens it was granted until they are revoked.
type fakeAuth struct {
	Authenticator

	mu       sync.Mutex
	profiles map[string]models.Profile
	lookups  int
}

func (v *fakeAuth) grant(token string, profile models.Profile) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.profiles == nil {
		v.profiles = make(map[string]models.Profile)
	}
	v.profiles[token] = profile
}

func (v *fakeAuth) revoke(token string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.profiles, token)
}

func (v *fakeAuth) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lookups
}

func (v *fakeAuth) GetSession(_ context.Context, token string) (auth.Session, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lookups++
	profile, ok := v.profiles[token]
	if !ok {
		return auth.Session{}, auth.ErrInvalidToken
	}
	return auth.Session{Token: token, Profile: profile}, nil
}

var tester = models.Profile{ID: 42, Username: "tester", Role: models.ProfileRoleUser}

func newTestClient(t *testing.T, remote *fakeRemote, hub *realtime.Hub) *Client {
	t.Helper()
	return newAuthClient(t, remote, hub, nil)
}

func newAuthClient(t *testing.T, remote *fakeRemote, hub *realtime.Hub, authn *fakeAuth) *Client {
	t.Helper()
	opts := Options{
		Store:  store.New(nil),
		Remote: remote,
		Config: Config{LikeReconcileDelay: time.Hour},
	}
	if hub != nil {
		opts.Realtime = hub
	}
	if authn != nil {
		opts.Auth = authn
	}
	client := New(opts)
	t.Cleanup(client.Close)
	return client
}

func signIn(client *Client) {
	client.Store.Auth.SetSession("token", tester)
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func errorToasts(toasts []Toast) int {
	var out int
	for _, toast := range toasts {
		if toast.Level == ToastError {
			out++
		}
	}
	return out
}
