package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several backends or
// datasets can share one Redis database without key clashes.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer defaults to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GraphKey implements Keyer.
func (k *ScopedKeyer) GraphKey(topic string, minYear, maxYear int) string {
	return k.prefix + k.inner.GraphKey(topic, minYear, maxYear)
}

// DiscoveriesKey implements Keyer.
func (k *ScopedKeyer) DiscoveriesKey(topic string) string {
	return k.prefix + k.inner.DiscoveriesKey(topic)
}

// TopicsKey implements Keyer.
func (k *ScopedKeyer) TopicsKey() string {
	return k.prefix + k.inner.TopicsKey()
}
