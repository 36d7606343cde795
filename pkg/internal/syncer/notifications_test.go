package syncer

import (
	"context"
	"testing"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/realtime"
)

func noteEvent(kind realtime.EventType, id, user uint, read bool) realtime.Event {
	row := map[string]any{"id": float64(id), "user_id": float64(user), "type": models.NotificationNewLike, "is_read": read}
	if kind == realtime.EventDelete {
		return realtime.Event{Table: "notifications", Type: kind, OldRecord: row}
	}
	return realtime.Event{Table: "notifications", Type: kind, Record: row}
}

func heldNotes(client *Client) []uint {
	var out []uint
	for _, item := range client.Store.Notifications.State().Items {
		out = append(out, item.ID)
	}
	return out
}

func TestRealtimeNotifications(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()

	other := models.Profile{ID: 43, Username: "other", Role: models.ProfileRoleUser}
	authn := &fakeAuth{}
	authn.grant("tester", tester)
	authn.grant("other", other)
	remote := &fakeRemote{
		listNotes: func(_ context.Context, user uint) ([]models.Notification, error) {
			if user != tester.ID {
				return nil, nil
			}
			return []models.Notification{{BaseModel: models.BaseModel{ID: 1}, UserID: tester.ID}}, nil
		},
		getNote: func(_ context.Context, id uint) (models.Notification, error) {
			return models.Notification{BaseModel: models.BaseModel{ID: id}, UserID: tester.ID}, nil
		},
	}
	client := newAuthClient(t, remote, hub, authn)
	ctx := context.Background()
	if _, err := client.Session.Restore(ctx, "tester"); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	hub.Publish(noteEvent(realtime.EventInsert, 2, tester.ID, false))
	hub.Publish(noteEvent(realtime.EventInsert, 2, tester.ID, false))
	hub.Publish(noteEvent(realtime.EventInsert, 9, other.ID, false))
	eventually(t, "the inserted notification", func() bool {
		return len(heldNotes(client)) == 2
	})
	if got := client.Store.Notifications.UnreadCount(); got != 2 {
		t.Errorf("unread = %d, want 2", got)
	}

	hub.Publish(noteEvent(realtime.EventUpdate, 1, tester.ID, true))
	eventually(t, "the read flag", func() bool {
		return client.Store.Notifications.UnreadCount() == 1
	})

	truncated := noteEvent(realtime.EventInsert, 3, tester.ID, false)
	truncated.Truncated = true
	hub.Publish(truncated)
	hub.Publish(noteEvent(realtime.EventDelete, 2, tester.ID, false))
	eventually(t, "the truncated insert and the deletion", func() bool {
		ids := heldNotes(client)
		return len(ids) == 2 && ids[0] == 3 && ids[1] == 1
	})
	if remote.count("GetNotification") != 1 {
		t.Errorf("GetNotification called %d times, want 1", remote.count("GetNotification"))
	}

	if _, err := client.Session.Restore(ctx, "other"); err != nil {
		t.Fatalf("Restore as another account: %v", err)
	}
	if hub.Count() != 1 {
		t.Fatalf("%d subscriptions open, want 1", hub.Count())
	}
	if ids := heldNotes(client); len(ids) != 0 {
		t.Fatalf("notifications of the previous account remain: %v", ids)
	}

	hub.Publish(noteEvent(realtime.EventInsert, 4, tester.ID, false))
	hub.Publish(noteEvent(realtime.EventInsert, 20, other.ID, false))
	eventually(t, "the new account's notification", func() bool {
		return len(heldNotes(client)) > 0
	})
	if ids := heldNotes(client); len(ids) != 1 || ids[0] != 20 {
		t.Errorf("held %v, want only #20", ids)
	}
}
