package services

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"github.com/samber/lo"
)

// ListFeaturedPosts returns the posts pinned by an administrator first,
// then fills the remaining slots with the most liked posts of the last seven days.
func (v *Accessor) ListFeaturedPosts(ctx context.Context, count int, viewer *uint) ([]models.Post, error) {
	_, count = NormalizePage(1, count, v.pageSize)
	deadline := time.Now().Add(-7 * 24 * time.Hour)

	var idx []uint
	if err := v.conn(ctx).Raw(`
		SELECT p.id
		FROM posts p
		LEFT JOIN (
			SELECT post_id, COUNT(*) AS recent_likes
			FROM post_likes
			WHERE created_at >= ?
			GROUP BY post_id
		) t ON p.id = t.post_id
		WHERE p.published = ? AND (p.featured = ? OR t.recent_likes > 0)
		ORDER BY p.featured DESC, COALESCE(t.recent_likes, 0) DESC, p.created_at DESC
		LIMIT ?
	`, deadline, true, true, count).Scan(&idx).Error; err != nil {
		return nil, wrapError("list featured posts", err)
	}
	if len(idx) == 0 {
		return []models.Post{}, nil
	}

	var items []models.Post
	if err := PreloadGeneral(v.conn(ctx)).Where("posts.id IN ?", idx).Find(&items).Error; err != nil {
		return nil, wrapError("list featured posts", err)
	}

	// Restore the ranking, the IN lookup does not keep it.
	byID := lo.KeyBy(items, func(item models.Post) uint { return item.ID })
	items = lo.FilterMap(idx, func(id uint, _ int) (models.Post, bool) {
		post, ok := byID[id]
		return post, ok
	})

	if err := v.completeViewerFlags(ctx, items, viewer); err != nil {
		return nil, err
	}
	return items, nil
}
