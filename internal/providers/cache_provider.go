package providers

import (
	"github.com/coocood/freecache"
	"mafiabot/internal/structures"
	"time"
	"unsafe"
)

const defaultCacheTTL = 10 * time.Minute

type CacheProviderInterface interface {
	// Mark records key and reports whether it was already present.
	Mark(key string) bool
}

type CacheProvider struct {
	cache *freecache.Cache
	ttl   int
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Event cache disabled")
		return &noopCache{}
	}

	sizeBytes := conf.Cache.Size * 1024 * 1024
	ttl := conf.Cache.TTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	logger.Infof(TypeApp, "Event cache initialized: %dMB, TTL=%s", conf.Cache.Size, ttl)

	return &CacheProvider{
		cache: freecache.NewCache(sizeBytes),
		ttl:   max(int(ttl.Seconds()), 1),
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// Safe when the result is only read (not modified), which is the case
// for freecache, which copies keys internally.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

var markValue = []byte{1}

func (c *CacheProvider) Mark(key string) bool {
	prev, err := c.cache.GetOrSet(unsafeStringToBytes(key), markValue, c.ttl)
	if err != nil {
		return false
	}
	return prev != nil
}

type noopCache struct{}

func (n *noopCache) Mark(_ string) bool { return false }
