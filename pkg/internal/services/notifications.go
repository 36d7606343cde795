package services

import (
	"context"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
)

func (v *Accessor) ListNotifications(ctx context.Context, user uint, limit int) ([]models.Notification, error) {
	_, limit = NormalizePage(1, limit, v.pageSize)

	var notifications []models.Notification
	if err := v.conn(ctx).
		Where("user_id = ?", user).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return notifications, wrapError("list notifications", err)
	}
	return notifications, nil
}

func (v *Accessor) GetNotification(ctx context.Context, id uint) (models.Notification, error) {
	var notification models.Notification
	if err := v.conn(ctx).Where("id = ?", id).First(&notification).Error; err != nil {
		return notification, wrapError("get notification", err)
	}
	return notification, nil
}

func (v *Accessor) MarkNotificationRead(ctx context.Context, id, user uint) error {
	result := v.conn(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, user).
		Update("is_read", true)
	if result.Error != nil {
		return wrapError("mark notification as read", result.Error)
	} else if result.RowsAffected == 0 {
		return wrapError("mark notification as read", ErrNotFound)
	}
	return nil
}

func (v *Accessor) MarkAllNotificationsRead(ctx context.Context, user uint) error {
	return wrapError("mark notifications as read", v.conn(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user, false).
		Update("is_read", true).Error)
}

func (v *Accessor) DeleteNotification(ctx context.Context, id, user uint) error {
	result := v.conn(ctx).
		Where("id = ? AND user_id = ?", id, user).
		Delete(&models.Notification{})
	if result.Error != nil {
		return wrapError("delete notification", result.Error)
	} else if result.RowsAffected == 0 {
		return wrapError("delete notification", ErrNotFound)
	}
	return nil
}
