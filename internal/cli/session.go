// Package cli implements the interactive command interpreter on top of the
// routing table: add, del, show, send, load, stats, help and exit.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/wesleywu/routesim/internal/audit"
	"github.com/wesleywu/routesim/internal/config"
	"github.com/wesleywu/routesim/internal/logger"
	"github.com/wesleywu/routesim/internal/routing"
	"github.com/wesleywu/routesim/internal/routing/batch"
	"github.com/wesleywu/routesim/internal/routing/metrics"
	"github.com/wesleywu/routesim/internal/routing/types"
)

const helpText = `=== IP Router Simulator ===
Available commands:
  add <network> <gateway> <metric>  - add a route (e.g. add 192.168.1.0/24 192.168.1.1 10)
  del <network>                     - delete a route (e.g. del 192.168.1.0/24)
  show                              - show the routing table
  send <source> <destination> <protocol>
                                    - send a packet (e.g. send 10.0.0.1 192.168.1.100 ICMP)
  load <file>                       - add routes from a file of "<network> <gateway> <metric>" lines
  stats                             - show session counters
  help                              - show this help
  exit                              - quit
`

// Options configures a Session
type Options struct {
	Out             io.Writer
	Audit           *audit.Log
	Logger          *logger.Logger
	Metrics         *metrics.Metrics
	LoadConcurrency int
}

// Session holds the routing table and its collaborators for one run
type Session struct {
	table   *routing.Table
	out     io.Writer
	audit   *audit.Log
	log     *logger.Logger
	metrics *metrics.Metrics
	workers int
}

// NewSession creates a session around table. Missing options get no-op defaults.
func NewSession(table *routing.Table, opts Options) *Session {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Audit == nil {
		opts.Audit = audit.Discard()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewMetrics()
	}
	if opts.LoadConcurrency < 1 {
		opts.LoadConcurrency = 1
	}

	return &Session{
		table:   table,
		out:     opts.Out,
		audit:   opts.Audit,
		log:     opts.Logger.WithComponent("cli"),
		metrics: opts.Metrics,
		workers: opts.LoadConcurrency,
	}
}

// Table returns the session's routing table
func (s *Session) Table() *routing.Table {
	return s.table
}

// Execute runs one command line and reports whether the session should end
func (s *Session) Execute(line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	op, args := fields[0], fields[1:]

	var err error
	switch op {
	case "add":
		err = s.handleAdd(args)
	case "del":
		err = s.handleDelete(args)
	case "show":
		s.printTable()
	case "send":
		err = s.handleSend(args)
	case "load":
		err = s.handleLoad(args)
	case "stats":
		s.printStats()
	case "help":
		s.PrintHelp()
	case "exit", "quit":
		return true
	default:
		s.println("Unknown command. Type 'help' for a list of commands.")
	}

	if err != nil {
		s.log.Debug("Command failed", "command", op, "error", err)
		s.printf("Error: %v\n", err)
	}
	return false
}

// PrintHelp writes the command summary
func (s *Session) PrintHelp() {
	fmt.Fprint(s.out, helpText)
}

func (s *Session) handleAdd(args []string) error {
	if len(args) < 3 {
		s.println("Usage: add <network> <gateway> <metric>")
		return nil
	}
	metric, err := strconv.Atoi(args[2])
	if err != nil {
		s.println("Usage: add <network> <gateway> <metric>")
		return nil
	}

	network, err := types.ParseAddress(args[0])
	if err != nil {
		return err
	}
	gateway, err := types.ParseAddress(args[1])
	if err != nil {
		return err
	}

	s.table.Add(types.NewRoute(network, gateway, metric))
	s.metrics.RecordAdd(1)
	s.println("Route added.")
	s.log.RouteAdded(network.String(), gateway.String(), metric, s.table.Len())
	s.recordAudit(s.audit.RecordAdd(args[0], args[1], metric))
	return nil
}

func (s *Session) handleDelete(args []string) error {
	if len(args) < 1 {
		s.println("Usage: del <network>")
		return nil
	}

	network, err := types.ParseAddress(args[0])
	if err != nil {
		return err
	}

	removed := s.table.Remove(network)
	s.metrics.RecordRemove(removed)
	if removed {
		s.println("Route removed.")
	} else {
		s.println("Route not found.")
	}
	s.log.RouteRemoved(network.String(), removed, s.table.Len())
	s.recordAudit(s.audit.RecordDelete(args[0]))
	return nil
}

func (s *Session) handleSend(args []string) error {
	if len(args) < 3 {
		s.println("Usage: send <source> <destination> <protocol>")
		return nil
	}

	source, err := types.ParseAddress(args[0])
	if err != nil {
		return err
	}
	destination, err := types.ParseAddress(args[1])
	if err != nil {
		return err
	}

	packet := routing.NewPacket(source, destination, args[2])
	s.println(packet.String())

	decision := routing.Resolve(s.table, packet.Destination)
	s.metrics.RecordDecision(decision.Action == routing.Forward)

	gateway := ""
	switch decision.Action {
	case routing.Forward:
		gateway = decision.Gateway.String()
		s.printf("Forwarding via gateway %s\n", gateway)
		s.recordAudit(s.audit.RecordForward(packet.String(), gateway))
	default:
		s.println("Packet dropped (no matching route).")
		s.recordAudit(s.audit.RecordDrop(packet.String()))
	}
	s.log.PacketDecision(decision.Action.String(), source.String(), destination.String(), packet.Protocol, gateway)
	return nil
}

func (s *Session) handleLoad(args []string) error {
	if len(args) < 1 {
		s.println("Usage: load <file>")
		return nil
	}

	n, err := s.LoadFile(args[0])
	if err != nil {
		return err
	}
	s.printf("Loaded %d routes.\n", n)
	return nil
}

// LoadFile adds every route in a route file. Nothing is added if any line is invalid.
func (s *Session) LoadFile(path string) (int, error) {
	start := time.Now()

	specs, err := config.LoadRoutes(path)
	if err != nil {
		return 0, err
	}

	routes, err := batch.ParseRoutes(specs, s.workers)
	if err != nil {
		return 0, fmt.Errorf("failed to load routes from %s: %w", path, err)
	}

	for i, r := range routes {
		s.table.Add(r)
		s.recordAudit(s.audit.RecordAdd(specs[i].Network, specs[i].Gateway, r.Metric))
	}
	s.metrics.RecordAdd(len(routes))
	s.log.RoutesLoaded(path, len(routes), time.Since(start).Milliseconds())

	return len(routes), nil
}

func (s *Session) printTable() {
	routes := s.table.ListByMetric()
	if len(routes) == 0 {
		s.println("Routing table is empty.")
		return
	}

	s.println("Current routing table:")
	rows := make([][]string, 0, len(routes))
	for _, r := range routes {
		rows = append(rows, []string{r.Network.String(), r.Gateway.String(), strconv.Itoa(r.Metric)})
	}

	table := tablewriter.NewWriter(s.out)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"NETWORK", "GATEWAY", "METRIC"})
	table.AppendBulk(rows)
	table.Render()
}

func (s *Session) printStats() {
	stats := s.metrics.Snapshot()
	s.printf("Routes: %d (%d networks)\n", s.table.Len(), s.table.Networks())
	s.printf("Added: %d, removed: %d, delete misses: %d\n", stats.RoutesAdded, stats.RoutesRemoved, stats.RemoveMisses)
	s.printf("Forwarded: %d, dropped: %d\n", stats.Forwarded, stats.Dropped)
}

func (s *Session) recordAudit(err error) {
	if err != nil {
		s.log.Warn("Audit write failed", "error", err)
	}
}

func (s *Session) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *Session) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}
