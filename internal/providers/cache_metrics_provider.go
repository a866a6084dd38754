package providers

import "mafiabot/internal/structures"

// InstrumentedCache reports lookups to the metrics provider. A hit means the
// event had already been seen.
type InstrumentedCache struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *InstrumentedCache) observe(found bool) bool {
	if found {
		c.metrics.IncCacheHits()
		return true
	}
	c.metrics.IncCacheMisses()
	return false
}

func (c *InstrumentedCache) Mark(key string) bool {
	return c.observe(c.inner.Mark(key))
}

// NewInstrumentedCacheProvider leaves a disabled cache unwrapped so it does
// not report a miss for every event.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if _, disabled := inner.(*noopCache); disabled {
		return inner
	}
	return &InstrumentedCache{inner: inner, metrics: metrics}
}
