package routing

import (
	"sort"
	"sync"

	"github.com/wesleywu/routesim/internal/routing/types"
)

// Table is an ordered collection of routes resolved by longest prefix match.
// Insertion order is kept and decides ties between equally long prefixes.
type Table struct {
	routes []types.Route
	// network hash -> number of routes with that network
	index map[uint64]int
	mutex sync.RWMutex
}

// NewTable creates an empty routing table
func NewTable() *Table {
	return &Table{
		routes: make([]types.Route, 0),
		index:  make(map[uint64]int),
	}
}

// Add appends a route. Duplicates are allowed.
func (t *Table) Add(route types.Route) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.routes = append(t.routes, route)
	t.index[route.Network.Hash()]++
}

// Remove deletes every route whose network is exactly equal to network and
// reports whether at least one was removed. Containment is not considered.
func (t *Table) Remove(network types.Address) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	hash := network.Hash()
	if t.index[hash] == 0 {
		return false
	}

	kept := t.routes[:0]
	removed := 0
	for _, r := range t.routes {
		if r.Network == network {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	// clear the tail so dropped routes are not retained by the backing array
	for i := len(kept); i < len(t.routes); i++ {
		t.routes[i] = types.Route{}
	}
	t.routes = kept

	if removed == 0 {
		return false
	}
	t.index[hash] -= removed
	if t.index[hash] <= 0 {
		delete(t.index, hash)
	}
	return true
}

// FindLongestMatch returns the matching route with the longest prefix.
// Among equally long prefixes the first route added wins; metric is ignored.
func (t *Table) FindLongestMatch(addr types.Address) (types.Route, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	var best types.Route
	found := false
	for _, r := range t.routes {
		if !r.Matches(addr) {
			continue
		}
		if !found || r.Network.Prefix() > best.Network.Prefix() {
			best = r
			found = true
		}
	}
	return best, found
}

// ListByMetric returns a copy of the routes stable-sorted by ascending metric
func (t *Table) ListByMetric() []types.Route {
	routes := t.Routes()
	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].Metric < routes[j].Metric
	})
	return routes
}

// Routes returns a copy of the routes in insertion order
func (t *Table) Routes() []types.Route {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	routes := make([]types.Route, len(t.routes))
	copy(routes, t.routes)
	return routes
}

// Len returns the number of routes
func (t *Table) Len() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.routes)
}

// Networks returns the number of distinct networks in the table
func (t *Table) Networks() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.index)
}

// Reset removes all routes
func (t *Table) Reset() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.routes = t.routes[:0]
	t.index = make(map[uint64]int)
}
