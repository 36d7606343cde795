package services

import (
	"context"
	"strings"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type PostInput struct {
	Title      string   `json:"title" validate:"required,max=200"`
	Content    string   `json:"content" validate:"required"`
	Excerpt    *string  `json:"excerpt" validate:"omitempty,max=500"`
	CoverImage *string  `json:"cover_image" validate:"omitempty,url"`
	CategoryID *uint    `json:"category_id"`
	Tags       []string `json:"tags" validate:"max=10,dive,required,max=32"`
	Published  bool     `json:"published"`
}

func (v *Accessor) ListPosts(ctx context.Context, filter PostFilter) (Page[models.Post], error) {
	page, limit := NormalizePage(filter.Page, filter.Limit, v.pageSize)

	tx := UniversalPostFilter(v.conn(ctx).Model(&models.Post{}), filter).
		Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return Page[models.Post]{}, wrapError("count posts", err)
	}

	out := EmptyPage[models.Post](page, total, limit)
	if page > out.TotalPages {
		return out, nil
	}

	var items []models.Post
	if err := PreloadGeneral(tx).
		Limit(limit).Offset(PageOffset(page, limit)).
		Order("posts.created_at DESC").
		Find(&items).Error; err != nil {
		return out, wrapError("list posts", err)
	}

	if err := v.completeViewerFlags(ctx, items, filter.Viewer); err != nil {
		return out, err
	}

	out.Items = items
	return out, nil
}

// completeViewerFlags fills the per-viewer liked and bookmarked flags with one lookup each.
func (v *Accessor) completeViewerFlags(ctx context.Context, items []models.Post, viewer *uint) error {
	if viewer == nil || len(items) == 0 {
		return nil
	}

	idx := lo.Map(items, func(item models.Post, _ int) uint {
		return item.ID
	})

	var liked []uint
	if err := v.conn(ctx).Model(&models.PostLike{}).
		Where("user_id = ? AND post_id IN ?", *viewer, idx).
		Pluck("post_id", &liked).Error; err != nil {
		return wrapError("load like status", err)
	}
	var bookmarked []uint
	if err := v.conn(ctx).Model(&models.Bookmark{}).
		Where("user_id = ? AND post_id IN ?", *viewer, idx).
		Pluck("post_id", &bookmarked).Error; err != nil {
		return wrapError("load bookmark status", err)
	}

	for idx := range items {
		items[idx].IsLiked = lo.Contains(liked, items[idx].ID)
		items[idx].IsBookmarked = lo.Contains(bookmarked, items[idx].ID)
	}
	return nil
}

func (v *Accessor) getPost(ctx context.Context, tx *gorm.DB, viewer *uint) (models.Post, error) {
	var item models.Post
	if err := PreloadGeneral(tx).First(&item).Error; err != nil {
		return item, wrapError("get post", err)
	}

	items := []models.Post{item}
	if err := v.completeViewerFlags(ctx, items, viewer); err != nil {
		return item, err
	}
	return items[0], nil
}

// GetPostBySlug hides drafts from everyone except their author and admins.
func (v *Accessor) GetPostBySlug(ctx context.Context, slug string, viewer *models.Profile) (models.Post, error) {
	tx := v.conn(ctx).Where("posts.slug = ?", slug)
	var viewerID *uint
	if viewer == nil {
		tx = tx.Where("posts.published = ?", true)
	} else {
		viewerID = &viewer.ID
		if !viewer.IsAdmin() {
			tx = tx.Where("(posts.published = ? OR posts.author_id = ?)", true, viewer.ID)
		}
	}
	return v.getPost(ctx, tx, viewerID)
}

func (v *Accessor) GetPostByID(ctx context.Context, id uint, viewer *uint) (models.Post, error) {
	return v.getPost(ctx, v.conn(ctx).Where("posts.id = ?", id), viewer)
}

func (v *Accessor) CreatePost(ctx context.Context, author uint, in PostInput) (models.Post, error) {
	slug := Slugify(in.Title)
	if len(slug) == 0 {
		return models.Post{}, invalid("title must contain at least one letter or digit")
	}

	item := models.Post{
		Title:      strings.TrimSpace(in.Title),
		Slug:       slug,
		Content:    in.Content,
		CoverImage: in.CoverImage,
		CategoryID: in.CategoryID,
		Published:  in.Published,
		AuthorID:   author,
	}
	applyPostText(&item, in)

	log.Debug().Str("slug", item.Slug).Uint("author", author).Msg("Creating a post...")

	err := v.conn(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := ensureTags(tx, in.Tags)
		if err != nil {
			return err
		}
		item.Tags = tags
		return tx.Omit("Tags.*").Create(&item).Error
	})
	if err != nil {
		return item, wrapError("create post", err)
	}

	return v.GetPostByID(ctx, item.ID, &author)
}

func (v *Accessor) UpdatePost(ctx context.Context, id uint, actor models.Profile, in PostInput) (models.Post, error) {
	err := v.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Post
		if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
			return err
		}
		if item.AuthorID != actor.ID && !actor.IsAdmin() {
			return ErrForbidden
		}

		if title := strings.TrimSpace(in.Title); title != item.Title {
			slug := Slugify(title)
			if len(slug) == 0 {
				return invalid("title must contain at least one letter or digit")
			}
			item.Title = title
			item.Slug = slug
		}
		item.Content = in.Content
		item.CoverImage = in.CoverImage
		item.CategoryID = in.CategoryID
		item.Category = nil
		item.Published = in.Published
		applyPostText(&item, in)

		tags, err := ensureTags(tx, in.Tags)
		if err != nil {
			return err
		}
		if err := tx.Omit("Tags", "Author", "Category").Save(&item).Error; err != nil {
			return err
		}
		return tx.Model(&item).Association("Tags").Replace(tags)
	})
	if err != nil {
		return models.Post{}, wrapError("update post", err)
	}

	return v.GetPostByID(ctx, id, &actor.ID)
}

func (v *Accessor) SetPostFeatured(ctx context.Context, id uint, featured bool) (models.Post, error) {
	tx := v.conn(ctx).Model(&models.Post{}).Where("id = ?", id).Update("featured", featured)
	if err := tx.Error; err != nil {
		return models.Post{}, wrapError("feature post", err)
	} else if tx.RowsAffected == 0 {
		return models.Post{}, wrapError("feature post", ErrNotFound)
	}
	return v.GetPostByID(ctx, id, nil)
}

func (v *Accessor) DeletePost(ctx context.Context, id uint, actor models.Profile) error {
	err := v.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Post
		if err := tx.Select("id", "author_id").Where("id = ?", id).First(&item).Error; err != nil {
			return err
		}
		if item.AuthorID != actor.ID && !actor.IsAdmin() {
			return ErrForbidden
		}

		for _, dependent := range []any{&models.Comment{}, &models.PostLike{}, &models.Bookmark{}} {
			if err := tx.Where("post_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&item).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	return wrapError("delete post", err)
}

func applyPostText(item *models.Post, in PostInput) {
	if in.Excerpt != nil && len(strings.TrimSpace(*in.Excerpt)) > 0 {
		item.Excerpt = strings.TrimSpace(*in.Excerpt)
	} else {
		item.Excerpt = MakeExcerpt(in.Content)
	}
	item.Language = DetectLanguage(in.Content)
}
