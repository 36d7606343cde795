package services

import (
	"context"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func (v *Accessor) AddBookmark(ctx context.Context, post, user uint) error {
	bookmark := models.Bookmark{PostID: post, UserID: user}
	return wrapError("bookmark post", v.conn(ctx).Create(&bookmark).Error)
}

func (v *Accessor) RemoveBookmark(ctx context.Context, post, user uint) error {
	result := v.conn(ctx).
		Where("post_id = ? AND user_id = ?", post, user).
		Delete(&models.Bookmark{})
	if result.Error != nil {
		return wrapError("remove bookmark", result.Error)
	} else if result.RowsAffected == 0 {
		return wrapError("remove bookmark", ErrNotFound)
	}
	return nil
}

func (v *Accessor) IsBookmarked(ctx context.Context, post, user uint) (bool, error) {
	var count int64
	if err := v.conn(ctx).Model(&models.Bookmark{}).
		Where("post_id = ? AND user_id = ?", post, user).
		Count(&count).Error; err != nil {
		return false, wrapError("check bookmark", err)
	}
	return count > 0, nil
}

// ListBookmarkedPosts pages through the published posts a user bookmarked, newest bookmark first.
func (v *Accessor) ListBookmarkedPosts(ctx context.Context, user uint, page, limit int) (Page[models.Post], error) {
	page, limit = NormalizePage(page, limit, v.pageSize)

	tx := v.conn(ctx).Model(&models.Post{}).
		Joins("JOIN bookmarks ON bookmarks.post_id = posts.id").
		Where("bookmarks.user_id = ? AND posts.published = ?", user, true).
		Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return Page[models.Post]{}, wrapError("count bookmarks", err)
	}

	out := EmptyPage[models.Post](page, total, limit)
	if page > out.TotalPages {
		return out, nil
	}

	var items []models.Post
	if err := PreloadGeneral(tx).
		Limit(limit).Offset(PageOffset(page, limit)).
		Order("bookmarks.created_at DESC").
		Find(&items).Error; err != nil {
		return out, wrapError("list bookmarks", err)
	}

	if err := v.completeViewerFlags(ctx, items, lo.ToPtr(user)); err != nil {
		return out, err
	}
	out.Items = items
	return out, nil
}
