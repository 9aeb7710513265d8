package project

import (
	"fmt"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// Loader produces a Project for a descriptor path.
type Loader interface {
	Load(path string) (*Project, error)
}

// FileLoader parses the descriptor from disk on every call.
type FileLoader struct {
	Logger zerolog.Logger
}

// Load parses the descriptor at path.
func (l FileLoader) Load(path string) (*Project, error) {
	p, err := Parse(path)
	if err != nil {
		return nil, err
	}
	l.Logger.Debug().
		Str("project", path).
		Int("references", len(p.References)).
		Msg("parsed project")
	return p, nil
}

// CachedLoader memoizes another Loader by cleaned path. It belongs to a
// single resolution pass; Projects stay immutable so sharing them is safe.
type CachedLoader struct {
	next   Loader
	cache  *lru.Cache[string, *Project]
	logger zerolog.Logger
}

// NewCachedLoader wraps next with an LRU cache holding up to size projects.
func NewCachedLoader(next Loader, size int, logger zerolog.Logger) (*CachedLoader, error) {
	cache, err := lru.New[string, *Project](size)
	if err != nil {
		return nil, fmt.Errorf("creating project cache: %w", err)
	}
	return &CachedLoader{next: next, cache: cache, logger: logger}, nil
}

// Load returns the cached project for path, loading it on a miss. Failed
// loads are not cached.
func (c *CachedLoader) Load(path string) (*Project, error) {
	key := filepath.Clean(path)
	if p, ok := c.cache.Get(key); ok {
		c.logger.Debug().Str("project", key).Msg("project cache hit")
		return p, nil
	}
	p, err := c.next.Load(key)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, p)
	return p, nil
}

// Len reports how many projects are cached.
func (c *CachedLoader) Len() int {
	return c.cache.Len()
}
