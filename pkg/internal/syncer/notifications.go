package syncer

import (
	"context"
	"sync"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/realtime"
	"github.com/rs/zerolog/log"
)

// NotificationsHook keeps the notifications of the signed in user in sync, including realtime changes.
type NotificationsHook struct {
	c       *Client
	tracker tracker

	mu     sync.Mutex
	userID uint
	sub    *realtime.Subscription
	ctx    context.Context
	cancel context.CancelFunc
}

func (v *NotificationsHook) Status() Status {
	return v.tracker.Status()
}

// Open subscribes to the recipient's notifications and fetches the latest ones.
func (v *NotificationsHook) Open(ctx context.Context) error {
	profile, err := v.c.requireUser()
	if err != nil {
		return err
	}

	v.mu.Lock()
	if v.sub == nil || v.userID != profile.ID {
		v.closeLocked()
		v.userID = profile.ID
		v.ctx, v.cancel = context.WithCancel(v.c.ctx)
		if v.c.realtime != nil {
			v.sub = v.c.realtime.
				Subscribe("notifications", realtime.Filter{Column: "user_id", Value: profile.ID}).
				OnInsert(v.handleUpsert(v.ctx, profile.ID, true)).
				OnUpdate(v.handleUpsert(v.ctx, profile.ID, false)).
				OnDelete(v.handleDelete(profile.ID)).
				Start()
		}
	}
	v.mu.Unlock()

	return v.Load(ctx)
}

func (v *NotificationsHook) Load(ctx context.Context) error {
	profile, err := v.c.requireUser()
	if err != nil {
		return err
	}
	notifications := v.c.Store.Notifications

	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()
	ctx, gen := v.tracker.begin(ctx)
	notifications.SetLoading(true)

	items, err := v.c.remote.ListNotifications(ctx, profile.ID, v.c.config.NotificationLimit)
	if !v.tracker.finish(gen, err) {
		return nil
	}
	notifications.SetLoading(false)
	if err != nil {
		return v.c.fail(notifications.SetError, "load notifications", err)
	}
	notifications.Set(items)
	return nil
}

func (v *NotificationsHook) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closeLocked()
	v.userID = 0
	v.tracker.stop()
}

func (v *NotificationsHook) closeLocked() {
	if v.sub != nil {
		v.sub.Close()
		v.sub = nil
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

func (v *NotificationsHook) scoped(user uint) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sub != nil && v.userID == user
}

func (v *NotificationsHook) handleUpsert(ctx context.Context, user uint, insert bool) realtime.Handler {
	return func(evt realtime.Event) {
		var notification models.Notification
		if evt.Truncated {
			fetched, err := v.c.remote.GetNotification(ctx, evt.ID())
			if err != nil {
				log.Warn().Err(err).Uint("notification", evt.ID()).Msg("Unable to fetch the changed notification...")
				return
			}
			notification = fetched
		} else if err := evt.Decode(&notification); err != nil {
			log.Warn().Err(err).Msg("Unable to decode the changed notification...")
			return
		}
		if !v.scoped(user) {
			return
		}
		if insert {
			v.c.Store.Notifications.Insert(notification)
		} else {
			v.c.Store.Notifications.Update(notification)
		}
	}
}

func (v *NotificationsHook) handleDelete(user uint) realtime.Handler {
	return func(evt realtime.Event) {
		if v.scoped(user) {
			v.c.Store.Notifications.Remove(evt.ID())
		}
	}
}

// MarkRead flags the notification locally first and restores it when the backend refuses.
func (v *NotificationsHook) MarkRead(ctx context.Context, id uint) error {
	profile, err := v.c.requireUser()
	if err != nil {
		return err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	changed := v.c.Store.Notifications.MarkRead(id)
	if err := v.c.remote.MarkNotificationRead(ctx, id, profile.ID); err != nil {
		if changed {
			v.c.Store.Notifications.MarkUnread(id)
		}
		return v.c.notify("mark notification as read", err)
	}
	return nil
}

// MarkAllRead zeroes the unread count locally before the backend confirms.
func (v *NotificationsHook) MarkAllRead(ctx context.Context) error {
	profile, err := v.c.requireUser()
	if err != nil {
		return err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	changed := v.c.Store.Notifications.MarkAllRead()
	if err := v.c.remote.MarkAllNotificationsRead(ctx, profile.ID); err != nil {
		for _, id := range changed {
			v.c.Store.Notifications.MarkUnread(id)
		}
		return v.c.notify("mark notifications as read", err)
	}
	return nil
}

func (v *NotificationsHook) Delete(ctx context.Context, id uint) error {
	profile, err := v.c.requireUser()
	if err != nil {
		return err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	if err := v.c.remote.DeleteNotification(ctx, id, profile.ID); err != nil {
		return v.c.notify("delete notification", err)
	}
	v.c.Store.Notifications.Remove(id)
	return nil
}
