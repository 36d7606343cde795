package syncer

import (
	"context"
	"errors"
	"testing"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/realtime"
)

func noNotifications(context.Context, uint) ([]models.Notification, error) {
	return nil, nil
}

func TestRestoreRejectsRevokedToken(t *testing.T) {
	authn := &fakeAuth{}
	authn.grant("tok", tester)
	remote := &fakeRemote{listNotes: noNotifications}
	client := newAuthClient(t, remote, nil, authn)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := client.Session.Restore(ctx, "tok"); err != nil {
			t.Fatalf("Restore #%d: %v", i+1, err)
		}
	}
	if remote.count("ListNotifications") != 1 {
		t.Errorf("notifications loaded %d times, want once per sign in", remote.count("ListNotifications"))
	}

	authn.revoke("tok")
	_, err := client.Session.Restore(ctx, "tok")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Restore after revocation = %v, want ErrUnauthenticated", err)
	}
	if client.Store.Auth.UserID() != nil {
		t.Error("a revoked token must not keep the account bound")
	}
	if authn.count() != 3 {
		t.Errorf("GetSession called %d times, want 3", authn.count())
	}
}

func TestForgetDropsTheAccount(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()

	authn := &fakeAuth{}
	authn.grant("tok", tester)
	client := newAuthClient(t, &fakeRemote{listNotes: noNotifications}, hub, authn)
	if _, err := client.Session.Restore(context.Background(), "tok"); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	draft := models.Post{BaseModel: models.BaseModel{ID: 5}, Title: "Draft", AuthorID: tester.ID}
	client.Store.Posts.SetCurrent(&draft)

	client.Session.Forget()

	if client.Store.Auth.UserID() != nil {
		t.Error("account still bound")
	}
	if client.Store.Posts.State().CurrentPost != nil {
		t.Error("the current post outlived the account")
	}
	if hub.Count() != 0 {
		t.Errorf("%d subscriptions remain open", hub.Count())
	}

	client.Session.Forget()
	if authn.count() != 1 {
		t.Errorf("GetSession called %d times, want 1", authn.count())
	}
}
