package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Keyer generates cache keys for backend responses.
type Keyer interface {
	// GraphKey keys a topic-level graph response.
	GraphKey(topic string, minYear, maxYear int) string

	// DiscoveriesKey keys the discoveries of one topic.
	DiscoveriesKey(topic string) string

	// TopicsKey keys the topic listing.
	TopicsKey() string
}

// DefaultKeyer produces keys of the form "<type>:<hash>". Topic names are
// hashed so arbitrary labels are safe in every backend.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(topic string, minYear, maxYear int) string {
	return hashKey("graph", topic, strconv.Itoa(minYear), strconv.Itoa(maxYear))
}

// DiscoveriesKey implements Keyer.
func (DefaultKeyer) DiscoveriesKey(topic string) string {
	return hashKey("discoveries", topic)
}

// TopicsKey implements Keyer.
func (DefaultKeyer) TopicsKey() string { return "topics:all" }

// KeyType returns the type prefix of a key produced by a Keyer, skipping any
// scope prefix added by [ScopedKeyer].
func KeyType(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[len(parts)-2]
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey hashes the NUL-joined parts. Topic names never contain NUL, so
// ("ab", "c") and ("a", "bc") cannot collide.
func hashKey(typ string, parts ...string) string {
	return typ + ":" + Hash([]byte(strings.Join(parts, "\x00")))
}
