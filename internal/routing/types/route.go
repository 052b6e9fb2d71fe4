package types

import (
	"fmt"
)

// Route represents a routing table entry
type Route struct {
	Network Address // Destination network
	Gateway Address // Next hop, usually a /32 host
	Metric  int     // Display ordering only, never used for lookup
}

// NewRoute creates a route
func NewRoute(network, gateway Address, metric int) Route {
	return Route{
		Network: network,
		Gateway: gateway,
		Metric:  metric,
	}
}

// Matches reports whether addr falls inside the route's network
func (r Route) Matches(addr Address) bool {
	return r.Network.Contains(addr)
}

func (r Route) String() string {
	return fmt.Sprintf("network %s, gateway %s, metric %d", r.Network, r.Gateway, r.Metric)
}
