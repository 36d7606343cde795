package services

import (
	"context"
	"errors"
	"strings"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name        string  `json:"name" validate:"required,max=64"`
	Description *string `json:"description" validate:"omitempty,max=512"`
}

func (v *Accessor) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := v.conn(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return categories, wrapError("list categories", err)
	}
	return categories, nil
}

func (v *Accessor) CreateCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	category := models.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        Slugify(in.Name),
		Description: in.Description,
	}
	if len(category.Slug) == 0 {
		return category, invalid("category name must contain at least one letter or digit")
	}

	if err := v.conn(ctx).Create(&category).Error; err != nil {
		return category, wrapError("create category", err)
	}
	return category, nil
}

func (v *Accessor) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (models.Category, error) {
	var category models.Category
	err := v.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&category).Error; err != nil {
			return err
		}
		category.Name = strings.TrimSpace(in.Name)
		category.Slug = Slugify(in.Name)
		category.Description = in.Description
		if len(category.Slug) == 0 {
			return invalid("category name must contain at least one letter or digit")
		}
		return tx.Save(&category).Error
	})
	if err != nil {
		return category, wrapError("update category", err)
	}
	return category, nil
}

// DeleteCategory detaches the category from its posts before removing it.
func (v *Accessor) DeleteCategory(ctx context.Context, id uint) error {
	err := v.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Category{})
		if result.Error != nil {
			return result.Error
		} else if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return wrapError("delete category", err)
}

func (v *Accessor) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := v.conn(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return tags, wrapError("list tags", err)
	}
	return tags, nil
}

// ensureTags resolves tag names to rows, creating the missing ones.
func ensureTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		slug := Slugify(name)
		if len(slug) == 0 || seen[slug] {
			continue
		}
		seen[slug] = true

		var tag models.Tag
		if err := tx.Where("slug = ?", slug).First(&tag).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			tag = models.Tag{Name: name, Slug: slug}
			if err := tx.Create(&tag).Error; err != nil {
				return nil, err
			}
		}
		tags = append(tags, tag)
	}
	return lo.UniqBy(tags, func(item models.Tag) uint { return item.ID }), nil
}
