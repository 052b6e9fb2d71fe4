package batch

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/wesleywu/routesim/internal/routing/types"
)

// RouteSpec is the textual form of a route, as read from a route file
type RouteSpec struct {
	Line    int
	Network string
	Gateway string
	Metric  string
}

// LineError reports the route spec that failed to parse
type LineError struct {
	Line int
	Err  error
}

func (le *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", le.Line, le.Err)
}

func (le *LineError) Unwrap() error {
	return le.Err
}

// Parse converts a single spec into a route
func (s RouteSpec) Parse() (types.Route, error) {
	network, err := types.ParseAddress(s.Network)
	if err != nil {
		return types.Route{}, err
	}
	gateway, err := types.ParseAddress(s.Gateway)
	if err != nil {
		return types.Route{}, err
	}
	metric, err := strconv.Atoi(s.Metric)
	if err != nil {
		return types.Route{}, fmt.Errorf("invalid metric %q: must be an integer", s.Metric)
	}
	return types.NewRoute(network, gateway, metric), nil
}

// ParseRoutes parses specs on a worker pool of the given size. The result
// keeps the order of specs. If any spec fails, no routes are returned and
// the error names the earliest failing spec.
func ParseRoutes(specs []RouteSpec, workers int) ([]types.Route, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	routes := make([]types.Route, len(specs))
	errs := make([]error, len(specs))
	var wg sync.WaitGroup

	for i := range specs {
		wg.Add(1)
		i := i
		submitErr := pool.Submit(func() {
			defer wg.Done()
			routes[i], errs[i] = specs[i].Parse()
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = fmt.Errorf("failed to schedule: %w", submitErr)
		}
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, &LineError{Line: specs[i].Line, Err: err}
		}
	}

	return routes, nil
}
