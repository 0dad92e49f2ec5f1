// Package tilecache keeps a bounded number of encoded tiles in front of a tile store.
package tilecache

import (
	"encoding/json"
	"fmt"

	"github.com/pdok/vtiler/cache"
	"github.com/pdok/vtiler/tile"
	log "github.com/sirupsen/logrus"
)

// TileGetter is satisfied by *tilestore.Store.
type TileGetter interface {
	GetTile(id uint64) (*tile.Tile, bool)
}

type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

func (s Stats) String() string {
	return fmt.Sprintf("hits: %d, misses: %d, evictions: %d", s.Hits, s.Misses, s.Evictions)
}

// Cache encodes tiles to JSON once and serves them from memory after. Absent
// tiles are not cached. Like the store it is not safe for concurrent use.
type Cache struct {
	store   TileGetter
	encoded *cache.Cache[uint64, []byte]
	stats   Stats
}

func New(store TileGetter, capacity int) *Cache {
	c := &Cache{store: store}
	c.encoded = cache.New[uint64, []byte](capacity, func(id uint64, _ []byte) {
		c.stats.Evictions++
		log.Debugf("evicted tile %d", id)
	})
	return c
}

// Get returns the encoded tile, false when the store has no such tile.
func (c *Cache) Get(id uint64) ([]byte, bool, error) {
	if b, ok := c.encoded.Get(id); ok {
		c.stats.Hits++
		return b, true, nil
	}
	c.stats.Misses++
	t, ok := c.store.GetTile(id)
	if !ok {
		return nil, false, nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, false, fmt.Errorf("could not encode %v: %w", t, err)
	}
	c.encoded.Set(id, b)
	return b, true, nil
}

func (c *Cache) Len() int {
	return c.encoded.Len()
}

func (c *Cache) Stats() Stats {
	return c.stats
}
