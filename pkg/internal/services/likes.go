package services

import (
	"context"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
)

type LikeStatus struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}

// GetLikeStatus reads the authoritative counter and the viewer's like in one query.
func (v *Accessor) GetLikeStatus(ctx context.Context, post, user uint) (LikeStatus, error) {
	var row struct {
		LikeCount int
		Liked     bool
	}
	result := v.conn(ctx).Raw(`
		SELECT p.like_count,
		       EXISTS (SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = ?) AS liked
		FROM posts p
		WHERE p.id = ?
	`, user, post).Scan(&row)
	if result.Error != nil {
		return LikeStatus{}, wrapError("get like status", result.Error)
	} else if result.RowsAffected == 0 {
		return LikeStatus{}, wrapError("get like status", ErrNotFound)
	}
	return LikeStatus{Liked: row.Liked, Count: row.LikeCount}, nil
}

func (v *Accessor) LikePost(ctx context.Context, post, user uint) error {
	like := models.PostLike{PostID: post, UserID: user}
	return wrapError("like post", v.conn(ctx).Create(&like).Error)
}

func (v *Accessor) UnlikePost(ctx context.Context, post, user uint) error {
	result := v.conn(ctx).
		Where("post_id = ? AND user_id = ?", post, user).
		Delete(&models.PostLike{})
	if result.Error != nil {
		return wrapError("unlike post", result.Error)
	} else if result.RowsAffected == 0 {
		return wrapError("unlike post", ErrNotFound)
	}
	return nil
}
