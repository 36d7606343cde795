package syncer

import (
	"context"
	"errors"
	"testing"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/realtime"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
)

func post(id uint, likes int, liked bool) models.Post {
	return models.Post{
		BaseModel: models.BaseModel{ID: id},
		Title:     "Post",
		Slug:      "post",
		Published: true,
		LikeCount: likes,
		IsLiked:   liked,
	}
}

func TestLikeToggleFlipsBeforeTheBackendAnswers(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	remote := &fakeRemote{
		likePost: func(ctx context.Context, _, _ uint) error {
			close(entered)
			<-release
			return nil
		},
	}
	client := newTestClient(t, remote, nil)
	signIn(client)
	client.Store.Posts.SetPage([]models.Post{post(1, 3, false)}, 1, 1, 1)

	done := make(chan LikeState, 1)
	go func() {
		state, _ := client.Likes.Toggle(context.Background(), 1)
		done <- state
	}()

	<-entered
	liked, count, _ := client.Store.Posts.LikeState(1)
	if !liked || count != 4 {
		t.Errorf("while pending got liked=%v count=%d, want true 4", liked, count)
	}

	close(release)
	state := <-done
	if !state.Liked || state.Count != 4 {
		t.Errorf("Toggle = %+v, want liked with 4", state)
	}
	if client.Likes.Pending() != 1 {
		t.Errorf("expected a reconcile to be scheduled")
	}
}

func TestLikeToggleRevertsOnFailure(t *testing.T) {
	remote := &fakeRemote{
		unlikePost: func(context.Context, uint, uint) error {
			return errors.New("network down")
		},
	}
	client := newTestClient(t, remote, nil)
	signIn(client)
	client.Store.Posts.SetPage([]models.Post{post(1, 5, true)}, 1, 1, 1)

	state, err := client.Likes.Toggle(context.Background(), 1)
	if err == nil {
		t.Fatal("expected the failure to surface")
	}
	if !state.Liked || state.Count != 5 {
		t.Errorf("Toggle = %+v, want the original liked with 5", state)
	}
	liked, count, _ := client.Store.Posts.LikeState(1)
	if !liked || count != 5 {
		t.Errorf("store holds liked=%v count=%d, want true 5", liked, count)
	}
	if errorToasts(client.Toasts.Drain()) != 1 {
		t.Error("expected one error toast")
	}
	if client.Likes.Pending() != 1 {
		t.Error("expected a reconcile after a failure too")
	}
}

func TestLikeToggleFetchesStatusOfUnheldPost(t *testing.T) {
	remote := &fakeRemote{
		getLikeStatus: func(context.Context, uint, uint) (services.LikeStatus, error) {
			return services.LikeStatus{Liked: false, Count: 0}, nil
		},
		likePost: func(context.Context, uint, uint) error { return nil },
	}
	client := newTestClient(t, remote, nil)
	signIn(client)

	state, err := client.Likes.Toggle(context.Background(), 9)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !state.Liked || state.Count != 1 {
		t.Errorf("Toggle = %+v, want liked with 1", state)
	}
	if remote.count("GetLikeStatus") != 1 || remote.count("LikePost") != 1 {
		t.Errorf("unexpected calls %v", remote.calls)
	}
}

func TestSignedOutActionsNeverReachTheBackend(t *testing.T) {
	remote := &fakeRemote{}
	client := newTestClient(t, remote, nil)
	client.Store.Posts.SetPage([]models.Post{post(1, 2, false)}, 1, 1, 1)

	actions := []struct {
		name string
		run  func() error
	}{
		{"like", func() error { _, err := client.Likes.Toggle(context.Background(), 1); return err }},
		{"comment", func() error { _, err := client.Comments.Post(context.Background(), "hello"); return err }},
		{"bookmark", func() error { _, err := client.Bookmarks.Toggle(context.Background(), 1); return err }},
		{"follow", func() error { _, err := client.Social.Toggle(context.Background(), 3); return err }},
		{"mark all read", func() error { return client.Notifications.MarkAllRead(context.Background()) }},
		{"delete post", func() error { return client.Feed.Delete(context.Background(), 1) }},
	}
	for _, action := range actions {
		t.Run(action.name, func(t *testing.T) {
			if err := action.run(); !errors.Is(err, ErrUnauthenticated) {
				t.Errorf("got %v, want ErrUnauthenticated", err)
			}
		})
	}

	if remote.total() != 0 {
		t.Errorf("expected no backend calls, got %v", remote.calls)
	}
	if liked, count, _ := client.Store.Posts.LikeState(1); liked || count != 2 {
		t.Errorf("like state changed to %v %d", liked, count)
	}
	if got := errorToasts(client.Toasts.Drain()); got != len(actions) {
		t.Errorf("got %d error toasts, want %d", got, len(actions))
	}
}

func TestRealtimeCommentInsertIsIdempotent(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()

	existing := models.Comment{BaseModel: models.BaseModel{ID: 1}, PostID: 7, Content: "first"}
	remote := &fakeRemote{
		listComments: func(context.Context, uint) ([]models.Comment, error) {
			return []models.Comment{existing}, nil
		},
		getComment: func(_ context.Context, id uint) (models.Comment, error) {
			return models.Comment{BaseModel: models.BaseModel{ID: id}, PostID: 7, Content: "fetched"}, nil
		},
	}
	client := newTestClient(t, remote, hub)
	if err := client.Comments.Open(context.Background(), 7); err != nil {
		t.Fatalf("Open: %v", err)
	}

	insert := func(id, post uint) realtime.Event {
		return realtime.Event{
			Table:  "comments",
			Type:   realtime.EventInsert,
			Record: map[string]any{"id": float64(id), "post_id": float64(post)},
		}
	}
	hub.Publish(insert(1, 7))
	hub.Publish(insert(5, 8))
	hub.Publish(insert(2, 7))

	eventually(t, "the new comment", func() bool {
		return len(client.Store.Comments.State().Items) == 2
	})
	if remote.count("GetComment") != 1 {
		t.Errorf("GetComment called %d times, want 1", remote.count("GetComment"))
	}
	items := client.Store.Comments.State().Items
	if items[0].ID != 1 || items[1].ID != 2 {
		t.Errorf("unexpected thread %+v", items)
	}
}

func TestRealtimeCommentDelete(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()

	remote := &fakeRemote{
		listComments: func(context.Context, uint) ([]models.Comment, error) {
			return []models.Comment{
				{BaseModel: models.BaseModel{ID: 1}, PostID: 7},
				{BaseModel: models.BaseModel{ID: 2}, PostID: 7},
			}, nil
		},
	}
	client := newTestClient(t, remote, hub)
	if err := client.Comments.Open(context.Background(), 7); err != nil {
		t.Fatalf("Open: %v", err)
	}

	hub.Publish(realtime.Event{
		Table:     "comments",
		Type:      realtime.EventDelete,
		OldRecord: map[string]any{"id": float64(1), "post_id": float64(7)},
	})
	eventually(t, "the deletion", func() bool {
		return !client.Store.Comments.Has(1)
	})

	client.Comments.Close()
	if hub.Count() != 0 {
		t.Errorf("expected the channel to be released, %d remain", hub.Count())
	}
}

func TestPostCommentReplacesProvisional(t *testing.T) {
	remote := &fakeRemote{
		listComments: func(context.Context, uint) ([]models.Comment, error) { return nil, nil },
		createComment: func(_ context.Context, in services.CommentInput) (models.Comment, error) {
			return models.Comment{BaseModel: models.BaseModel{ID: 11}, PostID: in.PostID, AuthorID: tester.ID, Content: in.Content}, nil
		},
	}
	client := newTestClient(t, remote, nil)
	signIn(client)
	if err := client.Comments.Open(context.Background(), 3); err != nil {
		t.Fatalf("Open: %v", err)
	}

	comment, err := client.Comments.Post(context.Background(), "  nice post  ")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	items := client.Store.Comments.State().Items
	if len(items) != 1 || items[0].ID != comment.ID || items[0].IsProvisional() {
		t.Errorf("unexpected thread %+v", items)
	}
	if items[0].Content != "nice post" {
		t.Errorf("content = %q", items[0].Content)
	}
}

func TestPostCommentFailureRemovesProvisional(t *testing.T) {
	remote := &fakeRemote{
		listComments: func(context.Context, uint) ([]models.Comment, error) { return nil, nil },
		createComment: func(context.Context, services.CommentInput) (models.Comment, error) {
			return models.Comment{}, errors.New("boom")
		},
	}
	client := newTestClient(t, remote, nil)
	signIn(client)
	if err := client.Comments.Open(context.Background(), 3); err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := client.Comments.Post(context.Background(), "hello"); err == nil {
		t.Fatal("expected the failure to surface")
	}
	if items := client.Store.Comments.State().Items; len(items) != 0 {
		t.Errorf("expected an empty thread, got %+v", items)
	}
}

func TestMarkAllReadZeroesUnread(t *testing.T) {
	notes := []models.Notification{
		{BaseModel: models.BaseModel{ID: 3}, UserID: tester.ID},
		{BaseModel: models.BaseModel{ID: 2}, UserID: tester.ID},
		{BaseModel: models.BaseModel{ID: 1}, UserID: tester.ID, IsRead: true},
	}

	tests := []struct {
		name       string
		err        error
		wantUnread int
	}{
		{"accepted", nil, 0},
		{"refused", errors.New("offline"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &fakeRemote{
				markAllRead: func(context.Context, uint) error { return tt.err },
			}
			client := newTestClient(t, remote, nil)
			signIn(client)
			client.Store.Notifications.Set(notes)

			err := client.Notifications.MarkAllRead(context.Background())
			if (err != nil) != (tt.err != nil) {
				t.Fatalf("MarkAllRead error = %v", err)
			}
			if got := client.Store.Notifications.UnreadCount(); got != tt.wantUnread {
				t.Errorf("unread = %d, want %d", got, tt.wantUnread)
			}
		})
	}
}

func TestDeletePostClearsOnlyMatchingCurrentPost(t *testing.T) {
	remote := &fakeRemote{
		deletePost: func(context.Context, uint) error { return nil },
	}
	client := newTestClient(t, remote, nil)
	signIn(client)

	current := post(1, 0, false)
	client.Store.Posts.SetPage([]models.Post{post(1, 0, false), post(2, 0, false)}, 1, 1, 2)
	client.Store.Posts.SetCurrent(&current)

	if err := client.Feed.Delete(context.Background(), 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	state := client.Store.Posts.State()
	if state.CurrentPost == nil || state.CurrentPost.ID != 1 {
		t.Errorf("current post was cleared by deleting another post")
	}
	if len(state.Items) != 1 || state.Total != 1 {
		t.Errorf("unexpected feed %+v", state.Items)
	}

	if err := client.Feed.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if state := client.Store.Posts.State(); state.CurrentPost != nil || len(state.Items) != 0 {
		t.Errorf("expected an empty feed and no current post, got %+v", state)
	}
}

func TestStaleFeedFetchIsDiscarded(t *testing.T) {
	entered := make(chan struct{})
	remote := &fakeRemote{
		listPosts: func(ctx context.Context, filter services.PostFilter) (services.Page[models.Post], error) {
			if filter.Search == "slow" {
				close(entered)
				<-ctx.Done()
				return services.Page[models.Post]{Items: []models.Post{post(100, 0, false)}, Page: 1}, ctx.Err()
			}
			return services.Page[models.Post]{Items: []models.Post{post(2, 0, false)}, Page: 1, TotalPages: 1, Total: 1}, nil
		},
	}
	client := newTestClient(t, remote, nil)

	slow := make(chan error, 1)
	go func() {
		slow <- client.Feed.Load(context.Background(), FeedParams{Page: 1, Search: "slow"})
	}()
	<-entered

	if err := client.Feed.Load(context.Background(), FeedParams{Page: 1}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := <-slow; err != nil {
		t.Errorf("stale load returned %v, want nil", err)
	}

	state := client.Store.Posts.State()
	if len(state.Items) != 1 || state.Items[0].ID != 2 {
		t.Errorf("feed holds %+v, want the latest page", state.Items)
	}
	if state.Loading || len(state.Error) > 0 {
		t.Errorf("unexpected flags loading=%v error=%q", state.Loading, state.Error)
	}
	if client.Feed.Status() != StatusReady {
		t.Errorf("status = %s, want ready", client.Feed.Status())
	}
	if errorToasts(client.Toasts.Drain()) != 0 {
		t.Error("a stale fetch must not toast")
	}
}

func TestMissingPostIsQuiet(t *testing.T) {
	remote := &fakeRemote{
		getPostBySlug: func(context.Context, string) (models.Post, error) {
			return models.Post{}, services.ErrNotFound
		},
	}
	client := newTestClient(t, remote, nil)

	err := client.Detail.Load(context.Background(), "nowhere")
	if !services.IsNotFound(err) {
		t.Fatalf("Load error = %v, want not found", err)
	}
	state := client.Store.Posts.State()
	if len(state.Error) == 0 || state.CurrentPost != nil {
		t.Errorf("expected the error flag without a current post, got %+v", state)
	}
	if client.Detail.Status() != StatusError {
		t.Errorf("status = %s, want error", client.Detail.Status())
	}
	if toasts := client.Toasts.Drain(); len(toasts) != 0 {
		t.Errorf("expected no toast, got %+v", toasts)
	}
}

func TestClosedClientStopsTimers(t *testing.T) {
	remote := &fakeRemote{
		likePost: func(context.Context, uint, uint) error { return nil },
	}
	client := newTestClient(t, remote, nil)
	signIn(client)
	client.Store.Posts.SetPage([]models.Post{post(1, 0, false)}, 1, 1, 1)

	if _, err := client.Likes.Toggle(context.Background(), 1); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	client.Close()
	if !client.Closed() || client.Likes.Pending() != 0 {
		t.Errorf("closed=%v pending=%d", client.Closed(), client.Likes.Pending())
	}
}

func TestSetTheme(t *testing.T) {
	client := newTestClient(t, &fakeRemote{}, nil)
	if err := client.SetTheme("dark"); err != nil || client.Store.Theme.Mode() != "dark" {
		t.Errorf("SetTheme(dark) = %v, mode %s", err, client.Store.Theme.Mode())
	}
	if err := client.SetTheme("sepia"); err == nil {
		t.Error("expected an unknown theme to be rejected")
	}
}

func TestInvalidPostIsRejectedLocally(t *testing.T) {
	remote := &fakeRemote{}
	client := newTestClient(t, remote, nil)
	signIn(client)

	_, err := client.Feed.Create(context.Background(), services.PostInput{Title: "", Content: "body"})
	if !errors.Is(err, services.ErrInvalid) {
		t.Fatalf("Create error = %v, want ErrInvalid", err)
	}
	if !IsLocal(err) || remote.total() != 0 {
		t.Errorf("expected a local rejection, calls %v", remote.calls)
	}
}
