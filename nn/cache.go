package nn

import "sync"

// Cache is a process-wide store of loaded models keyed by file path.
// Each file is read at most once; the cached models are shared
// read-only between all callers.
type Cache struct {
	mu     sync.Mutex
	models map[string]*Model
}

// NewCache creates an empty model cache.
func NewCache() *Cache {
	return &Cache{models: make(map[string]*Model)}
}

// DefaultCache is the shared process-wide cache used by the commands.
var DefaultCache = NewCache()

// Load returns the model stored at path, reading the file only on the
// first request. Load failures are not cached.
func (c *Cache) Load(path string) (*Model, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.models[path]; ok {
		return m, nil
	}

	m, err := LoadModel(path)
	if err != nil {
		return nil, err
	}

	c.models[path] = m

	return m, nil
}

// LoadAll loads every path and returns the models in argument order.
// The first failure aborts the whole load; a partial ensemble is
// never returned.
func (c *Cache) LoadAll(paths ...string) ([]*Model, error) {
	models := make([]*Model, len(paths))
	for i, path := range paths {
		m, err := c.Load(path)
		if err != nil {
			return nil, err
		}

		models[i] = m
	}

	return models, nil
}
