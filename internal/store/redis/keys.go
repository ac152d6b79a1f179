package redis

import "strconv"

const (
	// KeyPrefixSlot is the prefix for persistence slot keys
	KeyPrefixSlot = "marquee:slot:"
	// KeyPrefixMovie is the prefix for cached movie details
	KeyPrefixMovie = "marquee:movie:"
)

// SlotKey returns the Redis key for a persistence slot
func SlotKey(key string) string {
	return KeyPrefixSlot + key
}

// MovieKey returns the Redis key for a cached movie detail
func MovieKey(id int64) string {
	return KeyPrefixMovie + strconv.FormatInt(id, 10)
}
