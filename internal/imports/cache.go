package imports

import (
	"sync"

	"nga/internal/shardmap"
)

// symbolTable holds the resolutions of one specifier.
type symbolTable struct {
	mu     sync.RWMutex
	byName map[string]ResolvedImport
}

// Cache memoizes resolutions as specifier -> symbol name -> ResolvedImport.
// Entries are never evicted. Specifiers lock independently through the
// sharded outer map; names lock per specifier.
type Cache struct {
	specs *shardmap.Map[*symbolTable]
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{specs: shardmap.New[*symbolTable]()}
}

// Get returns the cached resolution for (specifier, name).
func (c *Cache) Get(specifier, name string) (ResolvedImport, bool) {
	table, ok := c.specs.Load(specifier)
	if !ok {
		return ResolvedImport{}, false
	}
	table.mu.RLock()
	defer table.mu.RUnlock()
	ri, ok := table.byName[name]
	return ri, ok
}

// Put stores a resolution. A later Put for the same key replaces the
// earlier value.
func (c *Cache) Put(specifier, name string, ri ResolvedImport) {
	table, _ := c.specs.LoadOrStore(specifier, &symbolTable{byName: make(map[string]ResolvedImport)})
	table.mu.Lock()
	table.byName[name] = ri
	table.mu.Unlock()
}

// Len returns the total number of cached resolutions.
func (c *Cache) Len() int {
	n := 0
	c.specs.Range(func(_ string, table *symbolTable) bool {
		table.mu.RLock()
		n += len(table.byName)
		table.mu.RUnlock()
		return true
	})
	return n
}
