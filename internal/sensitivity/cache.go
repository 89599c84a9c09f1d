package sensitivity

import (
	"sort"
	"strconv"
	"strings"

	"github.com/metrix-scopf/metrix/internal/network"
)

// TopologyKey deterministically encodes a (opened, closed) branch-set pair
// so connectivity-breaking contingencies within a shared-topology group can
// reuse a cached factorization.
func TopologyKey(opened, closed []network.BranchHandle) string {
	o := append([]network.BranchHandle(nil), opened...)
	c := append([]network.BranchHandle(nil), closed...)
	sort.Slice(o, func(i, j int) bool { return o[i] < o[j] })
	sort.Slice(c, func(i, j int) bool { return c[i] < c[j] })

	var sb strings.Builder
	sb.WriteString("open:")
	for _, h := range o {
		sb.WriteString(strconv.Itoa(int(h)))
		sb.WriteByte(',')
	}
	sb.WriteString("|close:")
	for _, h := range c {
		sb.WriteString(strconv.Itoa(int(h)))
		sb.WriteByte(',')
	}
	return sb.String()
}

// FactorizationCache caches per-contingency factorizations keyed by
// TopologyKey, cleared at the boundary of a shared-topology variant
// group.
type FactorizationCache struct {
	entries map[string]*Factorization
	pockets map[string]*PocketFactorization
}

// NewFactorizationCache returns an empty cache.
func NewFactorizationCache() *FactorizationCache {
	return &FactorizationCache{entries: make(map[string]*Factorization), pockets: make(map[string]*PocketFactorization)}
}

// Get returns a cached factorization for key, if present.
func (c *FactorizationCache) Get(key string) (*Factorization, bool) {
	f, ok := c.entries[key]
	return f, ok
}

// Put stores a factorization under key.
func (c *FactorizationCache) Put(key string, f *Factorization) { c.entries[key] = f }

// GetPocket returns a cached pocket factorization for key, if present.
func (c *FactorizationCache) GetPocket(key string) (*PocketFactorization, bool) {
	p, ok := c.pockets[key]
	return p, ok
}

// PutPocket stores a pocket factorization under key.
func (c *FactorizationCache) PutPocket(key string, p *PocketFactorization) { c.pockets[key] = p }

// Clear empties the cache at a shared-topology group boundary.
func (c *FactorizationCache) Clear() {
	c.entries = make(map[string]*Factorization)
	c.pockets = make(map[string]*PocketFactorization)
}
