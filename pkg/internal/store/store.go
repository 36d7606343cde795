package store

import (
	"context"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"

	"github.com/rs/zerolog/log"
)

// Store is the client state of one session. Slices only change through their mutators.
type Store struct {
	Auth          *AuthSlice
	Posts         *PostsSlice
	Comments      *CommentsSlice
	Categories    *CategoriesSlice
	Tags          *TagsSlice
	Notifications *NotificationsSlice
	Users         *UsersSlice
	Social        *SocialSlice
	Bookmarks     *BookmarksSlice
	Theme         *ThemeSlice

	persister Persister
}

func New(persister Persister) *Store {
	if persister == nil {
		persister = NewMemoryPersister()
	}

	v := &Store{persister: persister}
	v.Auth = &AuthSlice{persist: v.persist}
	v.Posts = &PostsSlice{}
	v.Comments = &CommentsSlice{}
	v.Categories = &CategoriesSlice{persist: v.persist}
	v.Tags = &TagsSlice{persist: v.persist}
	v.Notifications = &NotificationsSlice{}
	v.Users = &UsersSlice{profiles: make(map[string]profileEntry)}
	v.Social = &SocialSlice{}
	v.Bookmarks = &BookmarksSlice{}
	v.Theme = &ThemeSlice{mode: ThemeSystem, persist: v.persist}
	return v
}

func (v *Store) persist(key string, value any) {
	if err := v.persister.Save(context.Background(), key, value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Unable to persist store snapshot...")
	}
}

// Rehydrate restores the persisted slices before the first read.
func (v *Store) Rehydrate(ctx context.Context) error {
	var profile models.Profile
	if ok, err := v.persister.Load(ctx, KeyAuthProfile, &profile); err != nil {
		return err
	} else if ok {
		v.Auth.restore(profile)
	}

	var theme string
	if ok, err := v.persister.Load(ctx, KeyTheme, &theme); err != nil {
		return err
	} else if ok {
		v.Theme.restore(theme)
	}

	var categories []models.Category
	if ok, err := v.persister.Load(ctx, KeyCategories, &categories); err != nil {
		return err
	} else if ok {
		v.Categories.restore(categories)
	}

	var tags []models.Tag
	if ok, err := v.persister.Load(ctx, KeyTags, &tags); err != nil {
		return err
	} else if ok {
		v.Tags.restore(tags)
	}
	return nil
}

// ResetAccount drops everything tied to the signed in account.
func (v *Store) ResetAccount() {
	v.Auth.Clear()
	v.Notifications.Reset()
	v.Bookmarks.Reset()
	v.Social.Reset()
	v.Posts.ClearViewerFlags()
}

// Snapshot is a read-only copy of every slice.
type Snapshot struct {
	Auth          AuthState          `json:"auth"`
	Posts         PostsState         `json:"posts"`
	Comments      CommentsState      `json:"comments"`
	Categories    CategoriesState    `json:"categories"`
	Tags          TagsState          `json:"tags"`
	Notifications NotificationsState `json:"notifications"`
	Users         UsersState         `json:"users"`
	Social        SocialState        `json:"social"`
	Bookmarks     BookmarksState     `json:"bookmarks"`
	Theme         string             `json:"theme"`
}

func (v *Store) Snapshot() Snapshot {
	return Snapshot{
		Auth:          v.Auth.State(),
		Posts:         v.Posts.State(),
		Comments:      v.Comments.State(),
		Categories:    v.Categories.State(),
		Tags:          v.Tags.State(),
		Notifications: v.Notifications.State(),
		Users:         v.Users.State(),
		Social:        v.Social.State(),
		Bookmarks:     v.Bookmarks.State(),
		Theme:         v.Theme.Mode(),
	}
}
