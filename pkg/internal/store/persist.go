package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	gostore "github.com/eko/gocache/lib/v4/store"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

const (
	KeyAuthProfile = "auth-profile"
	KeyTheme       = "theme"
	KeyCategories  = "categories"
	KeyTags        = "tags"
)

// Persister keeps the snapshot of the persisted slices across reloads.
type Persister interface {
	Load(ctx context.Context, key string, out any) (bool, error)
	Save(ctx context.Context, key string, value any) error
	Clear(ctx context.Context) error
}

// MemoryPersister serializes snapshots into a map. It is safe for concurrent use.
type MemoryPersister struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{data: make(map[string][]byte)}
}

func (v *MemoryPersister) Load(_ context.Context, key string, out any) (bool, error) {
	v.mu.Lock()
	raw, ok := v.data[key]
	v.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, jsoniter.Unmarshal(raw, out)
}

func (v *MemoryPersister) Save(_ context.Context, key string, value any) error {
	raw, err := jsoniter.Marshal(value)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.data[key] = raw
	v.mu.Unlock()
	return nil
}

func (v *MemoryPersister) Clear(_ context.Context) error {
	v.mu.Lock()
	v.data = make(map[string][]byte)
	v.mu.Unlock()
	return nil
}

func (v *MemoryPersister) Keys() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, 0, len(v.data))
	for key := range v.data {
		out = append(out, key)
	}
	return out
}

// CachePersister keeps snapshots in the shared cache store, scoped by session.
type CachePersister struct {
	marshal *marshaler.Marshaler
	session string
	ttl     time.Duration
}

func NewCachePersister(backend gostore.StoreInterface, session string, ttl time.Duration) *CachePersister {
	return &CachePersister{
		marshal: marshaler.New(cache.New[any](backend)),
		session: session,
		ttl:     ttl,
	}
}

func (v *CachePersister) key(key string) string {
	return fmt.Sprintf("scribe-store#%s#%s", v.session, key)
}

func (v *CachePersister) sessionTag() string {
	return fmt.Sprintf("session#%s", v.session)
}

// Load treats every cache failure as a miss, a snapshot can always be fetched again.
func (v *CachePersister) Load(ctx context.Context, key string, out any) (bool, error) {
	if _, err := v.marshal.Get(ctx, v.key(key), out); err != nil {
		log.Debug().Err(err).Str("key", key).Str("session", v.session).Msg("No persisted snapshot, skipping...")
		return false, nil
	}
	return true, nil
}

func (v *CachePersister) Save(ctx context.Context, key string, value any) error {
	return v.marshal.Set(
		ctx,
		v.key(key),
		value,
		gostore.WithExpiration(v.ttl),
		gostore.WithTags([]string{"scribe-store", v.sessionTag()}),
	)
}

func (v *CachePersister) Clear(ctx context.Context) error {
	return v.marshal.Invalidate(ctx, gostore.WithInvalidateTags([]string{v.sessionTag()}))
}
