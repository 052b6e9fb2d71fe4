package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/wesleywu/routesim/internal/routing/batch"
)

// parseRouteLines splits route file lines into specs. Each line holds
// "<network> <gateway> <metric>"; blank lines and # comments are skipped.
func parseRouteLines(lines []string) ([]batch.RouteSpec, error) {
	specs := make([]batch.RouteSpec, 0, len(lines))

	for lineNum, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("invalid route at line %d: %s: expected <network> <gateway> <metric>", lineNum+1, line)
		}

		specs = append(specs, batch.RouteSpec{
			Line:    lineNum + 1,
			Network: fields[0],
			Gateway: fields[1],
			Metric:  fields[2],
		})
	}

	return specs, nil
}

// LoadRoutes reads a route file
func LoadRoutes(file string) ([]batch.RouteSpec, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", file, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", file, err)
	}

	return parseRouteLines(lines)
}
