package syncer

import (
	"context"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
)

// TaxonomyHook keeps categories and tags, both persisted across reloads.
type TaxonomyHook struct {
	c       *Client
	tracker tracker
}

func (v *TaxonomyHook) Status() Status {
	return v.tracker.Status()
}

func (v *TaxonomyHook) Load(ctx context.Context) error {
	categories := v.c.Store.Categories
	tags := v.c.Store.Tags

	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()
	ctx, gen := v.tracker.begin(ctx)
	categories.SetLoading(true)
	tags.SetLoading(true)

	categoryItems, err := v.c.remote.ListCategories(ctx)
	var tagItems []models.Tag
	if err == nil {
		tagItems, err = v.c.remote.ListTags(ctx)
	}
	if !v.tracker.finish(gen, err) {
		return nil
	}
	categories.SetLoading(false)
	tags.SetLoading(false)
	if err != nil {
		categories.SetError(Message(err))
		return v.c.fail(tags.SetError, "load taxonomy", err)
	}
	categories.Set(categoryItems)
	tags.Set(tagItems)
	return nil
}

func (v *TaxonomyHook) CreateCategory(ctx context.Context, in services.CategoryInput) (models.Category, error) {
	if _, err := v.c.requireAdmin(); err != nil {
		return models.Category{}, err
	}
	if err := v.c.check(in); err != nil {
		return models.Category{}, err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	category, err := v.c.remote.CreateCategory(ctx, in)
	if err != nil {
		return category, v.c.notify("create category", err)
	}
	v.c.Store.Categories.Upsert(category)
	return category, nil
}

func (v *TaxonomyHook) UpdateCategory(ctx context.Context, id uint, in services.CategoryInput) (models.Category, error) {
	if _, err := v.c.requireAdmin(); err != nil {
		return models.Category{}, err
	}
	if err := v.c.check(in); err != nil {
		return models.Category{}, err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	category, err := v.c.remote.UpdateCategory(ctx, id, in)
	if err != nil {
		return category, v.c.notify("update category", err)
	}
	v.c.Store.Categories.Upsert(category)
	return category, nil
}

func (v *TaxonomyHook) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := v.c.requireAdmin(); err != nil {
		return err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	if err := v.c.remote.DeleteCategory(ctx, id); err != nil {
		return v.c.notify("delete category", err)
	}
	v.c.Store.Categories.Remove(id)
	return nil
}
