package services

import (
	"context"
	"strings"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"gorm.io/gorm"
)

type CommentInput struct {
	PostID   uint   `json:"post_id" validate:"required"`
	Content  string `json:"content" validate:"required,max=4096"`
	ParentID *uint  `json:"parent_id"`
}

func (v *Accessor) ListComments(ctx context.Context, post uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := v.conn(ctx).
		Preload("Author").
		Where("post_id = ?", post).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return comments, wrapError("list comments", err)
	}
	return comments, nil
}

func (v *Accessor) GetComment(ctx context.Context, id uint) (models.Comment, error) {
	var comment models.Comment
	if err := v.conn(ctx).
		Preload("Author").
		Where("id = ?", id).
		First(&comment).Error; err != nil {
		return comment, wrapError("get comment", err)
	}
	return comment, nil
}

func (v *Accessor) CreateComment(ctx context.Context, author uint, in CommentInput) (models.Comment, error) {
	comment := models.Comment{
		PostID:   in.PostID,
		AuthorID: author,
		Content:  strings.TrimSpace(in.Content),
		ParentID: in.ParentID,
	}
	if len(comment.Content) == 0 {
		return comment, invalid("comment cannot be empty")
	}

	if err := v.conn(ctx).Omit("Author").Create(&comment).Error; err != nil {
		return comment, wrapError("create comment", err)
	}
	return v.GetComment(ctx, comment.ID)
}

func (v *Accessor) UpdateComment(ctx context.Context, id uint, author uint, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if len(content) == 0 {
		return models.Comment{}, invalid("comment cannot be empty")
	}

	err := v.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Where("id = ?", id).First(&comment).Error; err != nil {
			return err
		}
		if comment.AuthorID != author {
			return ErrForbidden
		}
		return tx.Model(&comment).Updates(map[string]any{
			"content":   content,
			"is_edited": true,
		}).Error
	})
	if err != nil {
		return models.Comment{}, wrapError("update comment", err)
	}
	return v.GetComment(ctx, id)
}

// DeleteComment allows the author and administrators.
func (v *Accessor) DeleteComment(ctx context.Context, id uint, actor models.Profile) error {
	tx := v.conn(ctx).Where("id = ?", id)
	if !actor.IsAdmin() {
		tx = tx.Where("author_id = ?", actor.ID)
	}
	result := tx.Delete(&models.Comment{})
	if result.Error != nil {
		return wrapError("delete comment", result.Error)
	} else if result.RowsAffected == 0 {
		return wrapError("delete comment", ErrNotFound)
	}
	return nil
}
