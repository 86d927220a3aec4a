// Package content provides the read-through file content cache shared by
// every analysis worker.
package content

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/singleflight"

	"nga/internal/errors"
	"nga/internal/shardmap"
)

// Reader returns the text of a file.
type Reader interface {
	Read(path string) (string, error)
}

// DefaultTTL is how long an entry is served before the file is read again.
const DefaultTTL = 300 * time.Second

type entry struct {
	text   string
	readAt time.Time
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries    int   `json:"entries"`
	TotalBytes int64 `json:"totalBytes"`
}

// Cache maps a file path to its text. Entries expire after the TTL and are
// re-read on the next access; size is unbounded. A TTL of zero or less
// disables expiry.
type Cache struct {
	ttl     time.Duration
	entries *shardmap.Map[entry]
	group   singleflight.Group
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a cache whose entries live for ttl.
func NewCache(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		ttl:     ttl,
		entries: shardmap.New[entry](),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read returns the text of path, reading the file when it is not cached or
// its entry has expired. Concurrent misses for the same path share one read.
func (c *Cache) Read(path string) (string, error) {
	if e, ok := c.entries.Load(path); ok && c.fresh(e) {
		return e.text, nil
	}

	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		if e, ok := c.entries.Load(path); ok && c.fresh(e) {
			return e.text, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewNgaError(errors.FileReadFailed, fmt.Sprintf("cannot read %s", path), err, nil)
		}
		text := string(data)
		c.entries.Store(path, entry{text: text, readAt: c.now()})
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Cache) fresh(e entry) bool {
	return c.ttl <= 0 || c.now().Sub(e.readAt) < c.ttl
}

// Remove drops path from the cache.
func (c *Cache) Remove(path string) {
	c.entries.Delete(path)
}

// Stats returns the number of entries and the total cached text size.
func (c *Cache) Stats() Stats {
	var s Stats
	c.entries.Range(func(_ string, e entry) bool {
		s.Entries++
		s.TotalBytes += int64(len(e.text))
		return true
	})
	return s
}
