package sessions

import (
	"context"
	"sync"
	"time"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/store"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/syncer"
	gostore "github.com/eko/gocache/lib/v4/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type entry struct {
	client   *syncer.Client
	lastSeen time.Time
}

// Registry owns one synchronized client per browser session.
type Registry struct {
	template syncer.Options
	backend  gostore.StoreInterface
	ttl      time.Duration
	idleTTL  time.Duration

	mu    sync.Mutex
	items map[string]*entry
}

// NewRegistry builds clients from the template. A nil backend keeps snapshots in memory only.
func NewRegistry(template syncer.Options, backend gostore.StoreInterface, persistTTL, idleTTL time.Duration) *Registry {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	if persistTTL <= 0 {
		persistTTL = 7 * 24 * time.Hour
	}
	return &Registry{
		template: template,
		backend:  backend,
		ttl:      persistTTL,
		idleTTL:  idleTTL,
		items:    make(map[string]*entry),
	}
}

func (v *Registry) persister(id string) store.Persister {
	if v.backend == nil {
		return store.NewMemoryPersister()
	}
	return store.NewCachePersister(v.backend, id, v.ttl)
}

// Obtain returns the client of the session, starting a new one when the id is unknown.
// A returning id whose client was swept gets its persisted snapshot back.
func (v *Registry) Obtain(ctx context.Context, id string) (string, *syncer.Client) {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	v.mu.Lock()
	if item, ok := v.items[id]; ok && !item.client.Closed() {
		item.lastSeen = time.Now()
		v.mu.Unlock()
		return id, item.client
	}
	v.mu.Unlock()

	state := store.New(v.persister(id))
	if err := state.Rehydrate(ctx); err != nil {
		log.Warn().Err(err).Str("session", id).Msg("Unable to rehydrate session store, starting fresh...")
	}
	opts := v.template
	opts.Store = state
	client := syncer.New(opts)

	v.mu.Lock()
	defer v.mu.Unlock()
	// Another request may have created the session meanwhile.
	if item, ok := v.items[id]; ok && !item.client.Closed() {
		client.Close()
		item.lastSeen = time.Now()
		return id, item.client
	}
	v.items[id] = &entry{client: client, lastSeen: time.Now()}
	log.Debug().Str("session", id).Msg("Started a new session.")
	return id, client
}

func (v *Registry) Get(id string) (*syncer.Client, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	item, ok := v.items[id]
	if !ok {
		return nil, false
	}
	return item.client, true
}

// Drop closes the session right away.
func (v *Registry) Drop(id string) {
	v.mu.Lock()
	item, ok := v.items[id]
	delete(v.items, id)
	v.mu.Unlock()
	if ok {
		item.client.Close()
	}
}

// Sweep closes the sessions idle for longer than the idle ttl.
func (v *Registry) Sweep() int {
	deadline := time.Now().Add(-v.idleTTL)

	v.mu.Lock()
	var expired []*syncer.Client
	for id, item := range v.items {
		if item.lastSeen.Before(deadline) || item.client.Closed() {
			expired = append(expired, item.client)
			delete(v.items, id)
		}
	}
	v.mu.Unlock()

	for _, client := range expired {
		client.Close()
	}
	if len(expired) > 0 {
		log.Info().Int("count", len(expired)).Msg("Swept idle sessions.")
	}
	return len(expired)
}

// RefreshTaxonomy reloads categories and tags of every live session.
func (v *Registry) RefreshTaxonomy(ctx context.Context) {
	for _, client := range v.clients() {
		if err := client.Taxonomy.Load(ctx); err != nil {
			log.Debug().Err(err).Msg("Unable to refresh taxonomy of a session...")
		}
	}
}

func (v *Registry) clients() []*syncer.Client {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]*syncer.Client, 0, len(v.items))
	for _, item := range v.items {
		out = append(out, item.client)
	}
	return out
}

func (v *Registry) Count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.items)
}

// Close ends every session, used on shutdown.
func (v *Registry) Close() {
	for _, client := range v.clients() {
		client.Close()
	}
	v.mu.Lock()
	v.items = make(map[string]*entry)
	v.mu.Unlock()
}
