package routing

import (
	"fmt"

	"github.com/wesleywu/routesim/internal/routing/types"
)

// Action is the outcome of resolving a destination
type Action int

// Action constants
const (
	// Drop means no route matched the destination
	Drop Action = iota
	// Forward means the packet is sent to the matched route's gateway
	Forward
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case Drop:
		return "DROP"
	case Forward:
		return "FWD"
	default:
		return "UNKNOWN"
	}
}

// Decision is the result of Resolve. Gateway and Route are only set for Forward.
type Decision struct {
	Action  Action
	Gateway types.Address
	Route   types.Route
}

// Resolve looks up the best route for destination without modifying the table
func Resolve(table *Table, destination types.Address) Decision {
	route, ok := table.FindLongestMatch(destination)
	if !ok {
		return Decision{Action: Drop}
	}
	return Decision{
		Action:  Forward,
		Gateway: route.Gateway,
		Route:   route,
	}
}

// Packet describes a simulated packet. Protocol is an opaque label.
type Packet struct {
	Source      types.Address
	Destination types.Address
	Protocol    string
}

// NewPacket creates a packet description
func NewPacket(source, destination types.Address, protocol string) Packet {
	return Packet{
		Source:      source,
		Destination: destination,
		Protocol:    protocol,
	}
}

func (p Packet) String() string {
	return fmt.Sprintf("packet from %s to %s [%s]", p.Source, p.Destination, p.Protocol)
}
