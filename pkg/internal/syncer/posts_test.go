package syncer

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
)

// postBackend keeps posts in memory and answers feed queries the way the database does.
type postBackend struct {
	mu    sync.Mutex
	posts []models.Post
	epoch time.Time
}

func (v *postBackend) create(_ context.Context, author uint, in services.PostInput) (models.Post, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := uint(len(v.posts) + 1)
	item := models.Post{
		BaseModel: models.BaseModel{ID: id, CreatedAt: v.epoch.Add(time.Duration(id) * time.Minute)},
		AuthorID:  author,
		Title:     in.Title,
		Content:   in.Content,
		Slug:      services.Slugify(in.Title),
		Published: in.Published,
	}
	v.posts = append(v.posts, item)
	return item, nil
}

func (v *postBackend) update(_ context.Context, id uint, in services.PostInput) (models.Post, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for idx := range v.posts {
		if v.posts[idx].ID == id {
			v.posts[idx].Title = in.Title
			v.posts[idx].Content = in.Content
			v.posts[idx].Published = in.Published
			return v.posts[idx], nil
		}
	}
	return models.Post{}, services.ErrNotFound
}

func (v *postBackend) list(_ context.Context, filter services.PostFilter) (services.Page[models.Post], error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	var items []models.Post
	for _, item := range v.posts {
		if filter.Scope == services.PostScopePublic && !item.Published {
			continue
		}
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b models.Post) int { return b.CreatedAt.Compare(a.CreatedAt) })
	out := services.EmptyPage[models.Post](1, int64(len(items)), 10)
	out.Items = append(out.Items, items...)
	return out, nil
}

func feedIDs(client *Client) []uint {
	var out []uint
	for _, item := range client.Store.Posts.State().Items {
		out = append(out, item.ID)
	}
	return out
}

func TestDraftAppearsInFeedOncePublished(t *testing.T) {
	backend := &postBackend{epoch: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	remote := &fakeRemote{
		listPosts:  backend.list,
		createPost: backend.create,
		updatePost: backend.update,
	}
	client := newTestClient(t, remote, nil)
	signIn(client)
	ctx := context.Background()

	if _, err := client.Feed.Create(ctx, services.PostInput{Title: "Older", Content: "<p>old</p>", Published: true}); err != nil {
		t.Fatalf("Create(published): %v", err)
	}
	draft, err := client.Feed.Create(ctx, services.PostInput{Title: "Fresh", Content: "<p>new</p>"})
	if err != nil {
		t.Fatalf("Create(draft): %v", err)
	}

	if err := client.Feed.Load(ctx, FeedParams{Page: 1}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ids := feedIDs(client); slices.Contains(ids, draft.ID) {
		t.Fatalf("the draft leaked into the public feed: %v", ids)
	}

	if _, err := client.Feed.Update(ctx, draft.ID, services.PostInput{Title: "Fresh", Content: "<p>new</p>", Published: true}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := client.Feed.Load(ctx, FeedParams{Page: 1}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ids := feedIDs(client)
	if len(ids) != 2 || ids[0] != draft.ID {
		t.Errorf("feed = %v, want the published draft first", ids)
	}
}

func TestClosedClientReportsErrClosed(t *testing.T) {
	remote := &fakeRemote{
		listPosts: func(ctx context.Context, _ services.PostFilter) (services.Page[models.Post], error) {
			return services.Page[models.Post]{}, ctx.Err()
		},
		deletePost: func(ctx context.Context, _ uint) error { return ctx.Err() },
	}
	client := newTestClient(t, remote, nil)
	signIn(client)
	client.Close()

	if err := client.Feed.Load(context.Background(), FeedParams{Page: 1}); !errors.Is(err, ErrClosed) {
		t.Errorf("Load after Close = %v, want ErrClosed", err)
	}
	if err := client.Feed.Delete(context.Background(), 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Delete after Close = %v, want ErrClosed", err)
	}
	if errorToasts(client.Toasts.Drain()) != 0 {
		t.Error("a closed client must not toast")
	}
}

func TestClearDuringFetchResetsLoading(t *testing.T) {
	entered := make(chan struct{})
	remote := &fakeRemote{
		getPostBySlug: func(ctx context.Context, _ string) (models.Post, error) {
			close(entered)
			<-ctx.Done()
			return models.Post{}, ctx.Err()
		},
	}
	client := newTestClient(t, remote, nil)

	done := make(chan error, 1)
	go func() { done <- client.Detail.Load(context.Background(), "slow") }()
	<-entered
	client.Detail.Clear()

	if err := <-done; err != nil {
		t.Errorf("dropped fetch returned %v", err)
	}
	state := client.Store.Posts.State()
	if state.Loading || state.CurrentPost != nil {
		t.Errorf("loading=%v current=%v", state.Loading, state.CurrentPost)
	}
	if client.Detail.Status() != StatusIdle {
		t.Errorf("status = %s, want idle", client.Detail.Status())
	}
}
