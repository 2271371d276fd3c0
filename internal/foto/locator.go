package foto

import (
	"context"
	"sync"
	"time"
)

// locationTimeout bounds a single fix acquisition.
const locationTimeout = 5 * time.Second

// fixMaxAge is how long a cached fix may be reused.
const fixMaxAge = 60 * time.Second

// Fix is a resolved device position.
type Fix struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy int     `json:"accuracy"`
}

// Locator resolves the device's current position.
type Locator interface {
	Current(ctx context.Context) (*Fix, error)
}

// StaticLocator serves the facility's fixed coordinates, for deployments
// where the node sits inside the kitchen and never moves.
type StaticLocator struct {
	Fix Fix
}

func (s *StaticLocator) Current(context.Context) (*Fix, error) {
	fix := s.Fix
	return &fix, nil
}

// CachedLocator reuses a recent fix instead of re-acquiring on every
// capture, matching the age tolerance of the device geolocation API.
type CachedLocator struct {
	Inner Locator

	mu   sync.Mutex
	last *Fix
	at   time.Time
}

func (c *CachedLocator) Current(ctx context.Context) (*Fix, error) {
	c.mu.Lock()
	if c.last != nil && time.Since(c.at) < fixMaxAge {
		fix := *c.last
		c.mu.Unlock()
		return &fix, nil
	}
	c.mu.Unlock()

	fix, err := c.Inner.Current(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.last = fix
	c.at = time.Now()
	c.mu.Unlock()
	return fix, nil
}
