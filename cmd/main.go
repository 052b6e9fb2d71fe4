package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wesleywu/routesim/internal/audit"
	"github.com/wesleywu/routesim/internal/cli"
	"github.com/wesleywu/routesim/internal/config"
	"github.com/wesleywu/routesim/internal/logger"
	"github.com/wesleywu/routesim/internal/routing"
	"github.com/wesleywu/routesim/internal/routing/types"
)

var (
	version = "1.0.0"

	configFile  string
	verboseMode bool
	auditFile   string
	noAudit     bool
	routesFile  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "routesim",
		Short: "Interactive IPv4 router simulator",
		Long:  `Maintain a static routing table and see how packets are forwarded or dropped by longest prefix match.`,
		Args:  cobra.NoArgs,
		Run:   runInteractive,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show version, build information and system details.`,
		Run:   showVersion,
	}

	resolveCmd := &cobra.Command{
		Use:   "resolve <destination>...",
		Short: "Resolve destinations against a route file",
		Long:  `Load the route file given by --routes and print the forwarding decision for each destination.`,
		Args:  cobra.MinimumNArgs(1),
		Run:   resolveDestinations,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "Verbose mode (debug level logging)")
	rootCmd.PersistentFlags().StringVar(&auditFile, "audit-log", "", "Audit log file (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noAudit, "no-audit", false, "Disable the audit log")
	rootCmd.PersistentFlags().StringVarP(&routesFile, "routes", "r", "", "Route file to load at startup")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resolveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if verboseMode {
		cfg.LogLevel = "debug"
	}
	if auditFile != "" {
		cfg.AuditLogFile = auditFile
	}
	if noAudit {
		cfg.AuditEnabled = false
	}
	if routesFile != "" {
		cfg.RoutesFile = routesFile
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func newSession(cfg *config.Config, log *logger.Logger, auditLog *audit.Log) *cli.Session {
	session := cli.NewSession(routing.NewTable(), cli.Options{
		Out:             os.Stdout,
		Audit:           auditLog,
		Logger:          log,
		LoadConcurrency: cfg.LoadConcurrency,
	})

	if cfg.RoutesFile != "" {
		n, err := session.LoadFile(cfg.RoutesFile)
		if err != nil {
			log.Error("Failed to load routes", "file", cfg.RoutesFile, "error", err)
			os.Exit(1)
		}
		log.Debug("Startup routes loaded", "file", cfg.RoutesFile, "routes", n)
	}
	return session
}

func runInteractive(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	log := logger.New(cfg.LogLevel, os.Stderr)

	auditLog := audit.Discard()
	if cfg.AuditEnabled {
		var err error
		auditLog, err = audit.Open(cfg.AuditLogFile)
		if err != nil {
			log.Error("Failed to open audit log", "error", err)
			os.Exit(1)
		}
	}
	defer auditLog.Close()

	session := newSession(cfg, log, auditLog)
	log.SessionStart(version, session.Table().Len())

	rl, err := cli.NewReadline(cfg.Prompt, cfg.HistoryFile, os.Stdout)
	if err != nil {
		log.Error("Failed to start interactive session", "error", err)
		os.Exit(1)
	}
	defer rl.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		_ = rl.Close()
	}()

	if err := session.Run(ctx, rl); err != nil {
		log.Error("Session error", "error", err)
		os.Exit(1)
	}
	log.SessionStop()
}

func resolveDestinations(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	log := logger.New(cfg.LogLevel, os.Stderr)

	if cfg.RoutesFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --routes is required for resolve")
		os.Exit(1)
	}

	session := newSession(cfg, log, audit.Discard())

	failed := false
	for _, arg := range args {
		dest, err := types.ParseAddress(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
			continue
		}

		decision := routing.Resolve(session.Table(), dest)
		switch decision.Action {
		case routing.Forward:
			fmt.Printf("%s %s via %s (route %s)\n", dest, decision.Action, decision.Gateway, decision.Route.Network)
		default:
			fmt.Printf("%s %s\n", dest, decision.Action)
		}
	}

	if failed {
		os.Exit(1)
	}
}

func showVersion(_ *cobra.Command, _ []string) {
	fmt.Printf("Router Simulator v%s\n", version)
	fmt.Printf("Runtime: %s\n", runtime.Version())
	fmt.Printf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
