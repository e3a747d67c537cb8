package auth

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/dmelim/userbase/config"
)

// LoginThrottle counts failed login attempts per client within a
// sliding window. Entries expire on their own; a successful login
// clears the counter early.
type LoginThrottle struct {
	cache *gocache.Cache
	max   int
}

func NewLoginThrottle(cfg config.ThrottleConfig) *LoginThrottle {
	return &LoginThrottle{
		cache: gocache.New(cfg.LoginWindow, 2*cfg.LoginWindow),
		max:   cfg.MaxLoginAttempts,
	}
}

// Allow reports whether the client is still under the failure limit.
func (t *LoginThrottle) Allow(key string) bool {
	if t.max <= 0 {
		return true
	}
	v, found := t.cache.Get(key)
	if !found {
		return true
	}
	count, ok := v.(int)
	if !ok {
		return true
	}
	return count < t.max
}

// RecordFailure bumps the failure counter for the client.
func (t *LoginThrottle) RecordFailure(key string) {
	if _, err := t.cache.IncrementInt(key, 1); err != nil {
		t.cache.Set(key, 1, gocache.DefaultExpiration)
	}
}

// Reset clears the failure counter after a successful login.
func (t *LoginThrottle) Reset(key string) {
	t.cache.Delete(key)
}
