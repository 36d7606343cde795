package syncer

import (
	"context"
	"io"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/auth"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
)

type PostsRemote interface {
	ListPosts(ctx context.Context, filter services.PostFilter) (services.Page[models.Post], error)
	ListFeaturedPosts(ctx context.Context, count int, viewer *uint) ([]models.Post, error)
	GetPostBySlug(ctx context.Context, slug string, viewer *models.Profile) (models.Post, error)
	GetPostByID(ctx context.Context, id uint, viewer *uint) (models.Post, error)
	CreatePost(ctx context.Context, author uint, in services.PostInput) (models.Post, error)
	UpdatePost(ctx context.Context, id uint, actor models.Profile, in services.PostInput) (models.Post, error)
	DeletePost(ctx context.Context, id uint, actor models.Profile) error
	SetPostFeatured(ctx context.Context, id uint, featured bool) (models.Post, error)
}

type CommentsRemote interface {
	ListComments(ctx context.Context, post uint) ([]models.Comment, error)
	GetComment(ctx context.Context, id uint) (models.Comment, error)
	CreateComment(ctx context.Context, author uint, in services.CommentInput) (models.Comment, error)
	UpdateComment(ctx context.Context, id uint, author uint, content string) (models.Comment, error)
	DeleteComment(ctx context.Context, id uint, actor models.Profile) error
}

type LikesRemote interface {
	GetLikeStatus(ctx context.Context, post, user uint) (services.LikeStatus, error)
	LikePost(ctx context.Context, post, user uint) error
	UnlikePost(ctx context.Context, post, user uint) error
}

type BookmarksRemote interface {
	AddBookmark(ctx context.Context, post, user uint) error
	RemoveBookmark(ctx context.Context, post, user uint) error
	IsBookmarked(ctx context.Context, post, user uint) (bool, error)
	ListBookmarkedPosts(ctx context.Context, user uint, page, limit int) (services.Page[models.Post], error)
}

type NotificationsRemote interface {
	ListNotifications(ctx context.Context, user uint, limit int) ([]models.Notification, error)
	GetNotification(ctx context.Context, id uint) (models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, user uint) error
	MarkAllNotificationsRead(ctx context.Context, user uint) error
	DeleteNotification(ctx context.Context, id, user uint) error
}

type ProfilesRemote interface {
	GetProfileByUsername(ctx context.Context, username string) (models.Profile, error)
	UpdateProfile(ctx context.Context, id uint, in services.ProfileInput) (models.Profile, error)
	ListProfiles(ctx context.Context, page, limit int, probe string) (services.Page[models.Profile], error)
	SetProfileRole(ctx context.Context, id uint, role string) (models.Profile, error)
}

type TaxonomyRemote interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, in services.CategoryInput) (models.Category, error)
	UpdateCategory(ctx context.Context, id uint, in services.CategoryInput) (models.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
	ListTags(ctx context.Context) ([]models.Tag, error)
}

type SocialRemote interface {
	Follow(ctx context.Context, follower, following uint) error
	Unfollow(ctx context.Context, follower, following uint) error
	GetFollowStats(ctx context.Context, target uint, viewer *uint) (models.FollowStats, error)
	ListFollowers(ctx context.Context, target uint) ([]models.Profile, error)
	ListFollowing(ctx context.Context, target uint) ([]models.Profile, error)
}

// Remote is the backend table API. *services.Accessor implements it.
type Remote interface {
	PostsRemote
	CommentsRemote
	LikesRemote
	BookmarksRemote
	NotificationsRemote
	ProfilesRemote
	TaxonomyRemote
	SocialRemote
}

// Authenticator is the backend auth API. *auth.Service implements it.
type Authenticator interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (models.Profile, error)
	SignIn(ctx context.Context, email, password string) (auth.Session, error)
	SignOut(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (auth.Session, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	UpdatePassword(ctx context.Context, token, password string) error
}

// Uploader is the object storage API. storage.Bucket implements it.
type Uploader interface {
	Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error)
}

var (
	_ Remote        = (*services.Accessor)(nil)
	_ Authenticator = (*auth.Service)(nil)
)
