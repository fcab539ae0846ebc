// File: utils/constants.go
package utils

import "time"

// SessionPrefix is the prefix used for Redis session keys.
const SessionPrefix = "session:"

// LocationCachePrefix keys cached hierarchy levels.
const LocationCachePrefix = "loc:"

// LocationCacheTTL is the time-to-live for cached hierarchy levels.
const LocationCacheTTL = 24 * time.Hour

// DistanceCachePrefix keys cached distance estimates.
const DistanceCachePrefix = "dist:"

// DistanceCacheTTL is the time-to-live for cached distance estimates.
const DistanceCacheTTL = 7 * 24 * time.Hour
