package services

import (
	"context"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"github.com/samber/lo"
)

func (v *Accessor) Follow(ctx context.Context, follower, following uint) error {
	if follower == following {
		return invalid("you cannot follow yourself")
	}
	follow := models.Follow{FollowerID: follower, FollowingID: following}
	return wrapError("follow user", v.conn(ctx).Create(&follow).Error)
}

func (v *Accessor) Unfollow(ctx context.Context, follower, following uint) error {
	result := v.conn(ctx).
		Where("follower_id = ? AND following_id = ?", follower, following).
		Delete(&models.Follow{})
	if result.Error != nil {
		return wrapError("unfollow user", result.Error)
	} else if result.RowsAffected == 0 {
		return wrapError("unfollow user", ErrNotFound)
	}
	return nil
}

func (v *Accessor) GetFollowStats(ctx context.Context, target uint, viewer *uint) (models.FollowStats, error) {
	var stats models.FollowStats
	viewerID := lo.FromPtrOr(viewer, 0)
	if err := v.conn(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM followers WHERE following_id = ?) AS followers,
			(SELECT COUNT(*) FROM followers WHERE follower_id = ?) AS following,
			EXISTS (SELECT 1 FROM followers WHERE follower_id = ? AND following_id = ?) AS is_following
	`, target, target, viewerID, target).Scan(&stats).Error; err != nil {
		return stats, wrapError("get follow stats", err)
	}
	return stats, nil
}

func (v *Accessor) ListFollowers(ctx context.Context, target uint) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := v.conn(ctx).
		Joins("JOIN followers ON followers.follower_id = profiles.id").
		Where("followers.following_id = ?", target).
		Order("followers.created_at DESC").
		Find(&profiles).Error; err != nil {
		return profiles, wrapError("list followers", err)
	}
	return profiles, nil
}

func (v *Accessor) ListFollowing(ctx context.Context, target uint) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := v.conn(ctx).
		Joins("JOIN followers ON followers.following_id = profiles.id").
		Where("followers.follower_id = ?", target).
		Order("followers.created_at DESC").
		Find(&profiles).Error; err != nil {
		return profiles, wrapError("list following", err)
	}
	return profiles, nil
}
