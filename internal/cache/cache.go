// Package cache holds the two in-process caches that keep repeated
// questions cheap: a time-bucketed schema snapshot cache and a content-keyed
// query result cache. Both are bounded, mutex-guarded, and safe for
// concurrent use.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Stats represents cache statistics
type Stats struct {
	Entries   int     `json:"entries"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
	MissRate  float64 `json:"miss_rate"`
}

// fillRates derives hit/miss rates from the raw counters
func (s *Stats) fillRates() {
	total := s.Hits + s.Misses
	if total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
		s.MissRate = float64(s.Misses) / float64(total)
	}
}

// hashKey collapses arbitrary statement text into a fixed-size map key
func hashKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
