package services

import (
	"strings"

	"gorm.io/gorm"
)

type PostScope int8

const (
	// PostScopePublic only exposes published posts.
	PostScopePublic = PostScope(iota)
	// PostScopeAuthor exposes every post of the viewer, drafts included.
	PostScopeAuthor
	// PostScopeDrafts exposes the unpublished posts of the viewer.
	PostScopeDrafts
	// PostScopeAdmin exposes everything.
	PostScopeAdmin
)

type PostFilter struct {
	Page       int
	Limit      int
	Search     string
	CategoryID *uint
	Tag        string
	AuthorID   *uint
	Featured   *bool
	Scope      PostScope
	Viewer     *uint
}

func FilterPostWithScope(tx *gorm.DB, scope PostScope, viewer *uint) *gorm.DB {
	switch scope {
	case PostScopeAdmin:
		return tx
	case PostScopeAuthor:
		if viewer == nil {
			return tx.Where("posts.published = ?", true)
		}
		return tx.Where("posts.author_id = ?", *viewer)
	case PostScopeDrafts:
		if viewer == nil {
			return tx.Where("1 = 0")
		}
		return tx.Where("posts.author_id = ? AND posts.published = ?", *viewer, false)
	default:
		return tx.Where("posts.published = ?", true)
	}
}

func FilterPostWithCategory(tx *gorm.DB, id uint) *gorm.DB {
	return tx.Where("posts.category_id = ?", id)
}

func FilterPostWithTag(tx *gorm.DB, slug string) *gorm.DB {
	return tx.Where(
		"posts.id IN (?)",
		tx.Session(&gorm.Session{NewDB: true}).
			Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", slug),
	)
}

func FilterPostWithAuthor(tx *gorm.DB, id uint) *gorm.DB {
	return tx.Where("posts.author_id = ?", id)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern matches the text literally anywhere in an ILIKE operand.
func ContainsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

func FilterPostWithFuzzySearch(tx *gorm.DB, probe string) *gorm.DB {
	if len(probe) == 0 {
		return tx
	}

	probe = ContainsPattern(probe)
	return tx.Where(
		"(posts.title ILIKE ? OR posts.excerpt ILIKE ? OR posts.content ILIKE ?)",
		probe, probe, probe,
	)
}

// UniversalPostFilter applies every filter carried by the request to the query.
func UniversalPostFilter(tx *gorm.DB, filter PostFilter) *gorm.DB {
	tx = FilterPostWithScope(tx, filter.Scope, filter.Viewer)
	if filter.CategoryID != nil {
		tx = FilterPostWithCategory(tx, *filter.CategoryID)
	}
	if len(filter.Tag) > 0 {
		tx = FilterPostWithTag(tx, filter.Tag)
	}
	if filter.AuthorID != nil {
		tx = FilterPostWithAuthor(tx, *filter.AuthorID)
	}
	if filter.Featured != nil {
		tx = tx.Where("posts.featured = ?", *filter.Featured)
	}
	return FilterPostWithFuzzySearch(tx, filter.Search)
}

func PreloadGeneral(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Author").
		Preload("Category").
		Preload("Tags")
}
