package services

import (
	"context"
	"regexp"
	"strings"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"gorm.io/gorm"
)

var UsernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)

type ProfileInput struct {
	Username    *string `json:"username"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=64"`
	Bio         *string `json:"bio" validate:"omitempty,max=1024"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url"`
}

func (v *Accessor) GetProfileByID(ctx context.Context, id uint) (models.Profile, error) {
	var profile models.Profile
	if err := v.conn(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return profile, wrapError("get profile", err)
	}
	return profile, nil
}

func (v *Accessor) GetProfileByUsername(ctx context.Context, username string) (models.Profile, error) {
	var profile models.Profile
	if err := v.conn(ctx).Where("username = ?", strings.ToLower(username)).First(&profile).Error; err != nil {
		return profile, wrapError("get profile", err)
	}
	return profile, nil
}

func (v *Accessor) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (models.Profile, error) {
	var profile models.Profile
	err := v.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&profile).Error; err != nil {
			return err
		}
		if in.Username != nil {
			username := strings.ToLower(strings.TrimSpace(*in.Username))
			if !UsernamePattern.MatchString(username) {
				return invalid("username must be 3 to 32 lowercase letters, digits or underscores")
			}
			profile.Username = username
		}
		if in.DisplayName != nil {
			profile.DisplayName = in.DisplayName
		}
		if in.Bio != nil {
			profile.Bio = in.Bio
		}
		if in.AvatarURL != nil {
			profile.AvatarURL = in.AvatarURL
		}
		return tx.Save(&profile).Error
	})
	if err != nil {
		return profile, wrapError("update profile", err)
	}
	return profile, nil
}

func (v *Accessor) ListProfiles(ctx context.Context, page, limit int, probe string) (Page[models.Profile], error) {
	page, limit = NormalizePage(page, limit, v.pageSize)

	tx := v.conn(ctx).Model(&models.Profile{})
	if len(probe) > 0 {
		probe = ContainsPattern(probe)
		tx = tx.Where("(username ILIKE ? OR display_name ILIKE ?)", probe, probe)
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return Page[models.Profile]{}, wrapError("count profiles", err)
	}

	out := EmptyPage[models.Profile](page, total, limit)
	if page > out.TotalPages {
		return out, nil
	}

	var items []models.Profile
	if err := tx.Limit(limit).Offset(PageOffset(page, limit)).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return out, wrapError("list profiles", err)
	}
	out.Items = items
	return out, nil
}

func (v *Accessor) SetProfileRole(ctx context.Context, id uint, role string) (models.Profile, error) {
	if role != models.ProfileRoleUser && role != models.ProfileRoleAdmin {
		return models.Profile{}, invalid("unknown role %q", role)
	}

	result := v.conn(ctx).Model(&models.Profile{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return models.Profile{}, wrapError("set profile role", result.Error)
	} else if result.RowsAffected == 0 {
		return models.Profile{}, wrapError("set profile role", ErrNotFound)
	}
	return v.GetProfileByID(ctx, id)
}
