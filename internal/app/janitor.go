package app

import "time"

const (
	minJanitorInterval = time.Minute
	maxJanitorInterval = time.Hour
)

// janitorInterval sweeps expired carts a few times per session lifetime.
func janitorInterval(ttl time.Duration) time.Duration {
	return min(max(ttl/4, minJanitorInterval), maxJanitorInterval)
}
