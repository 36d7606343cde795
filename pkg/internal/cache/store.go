package cache

import (
	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/store"
	ristrettoCache "github.com/eko/gocache/store/ristretto/v4"
	"github.com/spf13/viper"
)

var S store.StoreInterface

func NewStore() error {
	maxCost := viper.GetInt64("cache.max_cost")
	if maxCost <= 0 {
		maxCost = 1 << 27
	}

	ristr, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return err
	}

	S = ristrettoCache.NewRistretto(ristr)
	return nil
}
