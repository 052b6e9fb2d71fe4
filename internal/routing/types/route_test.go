package types

import (
	"testing"
)

func TestRoute(t *testing.T) {
	network := MustParseAddress("192.168.1.0/24")
	gateway := MustParseAddress("192.168.1.1")

	route := NewRoute(network, gateway, 10)

	if route.Network != network {
		t.Error("Route network mismatch")
	}

	if route.Gateway != gateway {
		t.Error("Route gateway mismatch")
	}

	if route.Metric != 10 {
		t.Errorf("Expected metric 10, got %d", route.Metric)
	}

	if !route.Matches(MustParseAddress("192.168.1.50")) {
		t.Error("Route should match address inside its network")
	}

	if route.Matches(MustParseAddress("192.168.2.50")) {
		t.Error("Route should not match address outside its network")
	}

	expected := "network 192.168.1.0/24, gateway 192.168.1.1/32, metric 10"
	if route.String() != expected {
		t.Errorf("Expected %q, got %q", expected, route.String())
	}
}
