// ABOUTME: Entry point for the energy CRM CLI, MCP server, web UI and TUI
// ABOUTME: Wires config, storage, store, metrics and persistence, then routes commands
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/harperreed/energycrm/cli"
	"github.com/harperreed/energycrm/config"
	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/metrics"
	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/persist"
	"github.com/harperreed/energycrm/seed"
	"github.com/harperreed/energycrm/store"
	"github.com/harperreed/energycrm/tui"
	"github.com/harperreed/energycrm/web"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dataDir := flag.String("data-dir", "", "Data directory (default: ~/.local/share/energycrm)")
	backend := flag.String("backend", "", "Storage backend: sqlite, badger or charm")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn or error")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("energycrm version %s\n", version)
		os.Exit(0)
	}

	// Get remaining args after flags
	args := flag.Args()

	// If no command specified, show usage
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *backend != "" {
		cfg.Backend = persist.Kind(*backend)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	// stdout belongs to command output and the MCP protocol
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, reg, closeFn, err := setup(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer closeFn()

	if err := run(ctx, app, cfg, reg, logger, args[0], args[1:]); err != nil {
		closeFn()
		log.Fatalf("Error: %v", err)
	}
}

// setup opens storage, hydrates the store and returns the CLI app.
func setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*cli.App, *prometheus.Registry, func(), error) {
	opts := cfg.PersistOptions()
	opts.Charm.Logger = logger
	backend, err := persist.Open(opts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open %s storage: %w", cfg.Backend, err)
	}
	logger.Debug("storage opened", "backend", cfg.Backend, "path", cfg.StoragePath())

	ids, err := models.NewIDGenerator(cfg.IDScheme)
	if err != nil {
		_ = backend.Close()
		return nil, nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	s := store.New(store.WithLogger(logger), store.WithDispatchHook(m.ObserveDispatch))
	unsubscribeMetrics := s.Subscribe(m.Observer())

	bridge := persist.NewBridge(backend, seed.Partial,
		persist.WithKey(cfg.StorageKey),
		persist.WithStartupPolicy(cfg.StartupPolicy),
		persist.WithBridgeLogger(logger),
		persist.WithWriteRecorder(m))
	detach, err := bridge.Attach(ctx, s)
	if err != nil {
		unsubscribeMetrics()
		_ = backend.Close()
		return nil, nil, nil, fmt.Errorf("failed to load data: %w", err)
	}

	svc := crm.New(s, crm.WithIDGenerator(ids))
	app := cli.NewApp(svc, bridge)
	if charm, ok := backend.(*persist.CharmBackend); ok {
		app.Syncer = charm
		app.SyncHost = cfg.CharmHost
		app.AutoSync = cfg.AutoSync
	}

	var closed bool
	closeFn := func() {
		if closed {
			return
		}
		closed = true
		detach()
		unsubscribeMetrics()
		if err := backend.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}
	return app, reg, closeFn, nil
}

func run(ctx context.Context, app *cli.App, cfg *config.Config, reg *prometheus.Registry, logger *slog.Logger, command string, args []string) error {
	switch command {
	case "mcp":
		return app.MCPCommand(ctx, logger)

	case "web":
		fs := flag.NewFlagSet("web", flag.ContinueOnError)
		addr := fs.String("addr", cfg.WebAddr, "Listen address")
		if err := fs.Parse(args); err != nil {
			return err
		}
		srv, err := web.NewServer(app.Svc, web.WithLogger(logger), web.WithGatherer(reg))
		if err != nil {
			return err
		}
		fmt.Printf("Energy CRM running at http://%s\n", *addr)
		return srv.Start(ctx, *addr)

	case "tui":
		var opts []tui.Option
		if app.Syncer != nil {
			opts = append(opts, tui.WithSync(app.Sync, app.SyncHost))
		}
		return tui.Run(ctx, app.Svc, opts...)

	case "crm":
		if len(args) == 0 {
			printUsage()
			return fmt.Errorf("crm requires a subcommand")
		}
		return runCRM(ctx, app, args[0], args[1:])

	case "viz":
		if len(args) == 0 {
			printUsage()
			return fmt.Errorf("viz requires a subcommand")
		}
		switch args[0] {
		case "dashboard":
			return app.VizDashboardCommand(ctx, args[1:])
		case "graph":
			return app.VizGraphCommand(ctx, args[1:])
		default:
			printUsage()
			return fmt.Errorf("unknown viz command: %s", args[0])
		}

	case "sync":
		if len(args) == 0 {
			return app.SyncStatusCommand(ctx, nil)
		}
		switch args[0] {
		case "status":
			return app.SyncStatusCommand(ctx, args[1:])
		case "now":
			return app.SyncNowCommand(ctx, args[1:])
		default:
			return fmt.Errorf("unknown sync command: %s", args[0])
		}

	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runCRM(ctx context.Context, app *cli.App, command string, args []string) error {
	switch command {
	// Contact commands
	case "add-contact":
		return app.AddContactCommand(ctx, args)
	case "list-contacts":
		return app.ListContactsCommand(ctx, args)
	case "update-contact":
		return app.UpdateContactCommand(ctx, args)
	case "delete-contact":
		return app.DeleteContactCommand(ctx, args)

	// Company commands
	case "add-company":
		return app.AddCompanyCommand(ctx, args)
	case "list-companies":
		return app.ListCompaniesCommand(ctx, args)
	case "update-company":
		return app.UpdateCompanyCommand(ctx, args)
	case "delete-company":
		return app.DeleteCompanyCommand(ctx, args)

	// Deal commands
	case "add-deal":
		return app.AddDealCommand(ctx, args)
	case "list-deals":
		return app.ListDealsCommand(ctx, args)
	case "update-deal":
		return app.UpdateDealCommand(ctx, args)
	case "delete-deal":
		return app.DeleteDealCommand(ctx, args)

	// Activity commands
	case "log-activity":
		return app.LogActivityCommand(ctx, args)
	case "list-activities":
		return app.ListActivitiesCommand(ctx, args)
	case "update-activity":
		return app.UpdateActivityCommand(ctx, args)
	case "delete-activity":
		return app.DeleteActivityCommand(ctx, args)
	case "followups":
		return app.FollowupListCommand(ctx, args)

	// Users
	case "list-users":
		return app.ListUsersCommand(ctx, args)
	case "set-user":
		return app.SetUserCommand(ctx, args)
	case "update-profile":
		return app.UpdateProfileCommand(ctx, args)

	// Data management
	case "dashboard":
		return app.VizDashboardCommand(ctx, args)
	case "export":
		return app.ExportCommand(ctx, args)
	case "import":
		return app.ImportCommand(ctx, args)
	case "clear-data":
		return app.ClearDataCommand(ctx, args)
	case "storage":
		return app.StorageInfoCommand(ctx, args)

	default:
		printUsage()
		return fmt.Errorf("unknown crm command: %s", command)
	}
}

func printUsage() {
	fmt.Printf(`energycrm v%s - Sales CRM for energy project developers

USAGE:
  energycrm [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --data-dir <path>      Data directory (default: ~/.local/share/energycrm)
  --backend <kind>       Storage backend: sqlite, badger or charm (default: sqlite)
  --log-level <level>    debug, info, warn or error (default: info)

COMMANDS:
  crm                    CRM management commands
  viz                    Dashboard and graphs
  mcp                    Start MCP server on stdio
  web                    Start web UI (--addr, default localhost:8080)
  tui                    Start terminal UI
  sync                   Charm sync: status, now

CRM COMMANDS:
  energycrm crm add-contact      --name --email --company [--title --phone --owner --status --notes]
  energycrm crm list-contacts    [--query --status --where <expr> --limit]
  energycrm crm update-contact   [flags] <id>
  energycrm crm delete-contact   <id>

  energycrm crm add-company      --name [--type --segment --size --city --state --revenue --status]
  energycrm crm list-companies   [--query --type --segment --status --where <expr> --limit]
  energycrm crm update-company   [flags] <id>
  energycrm crm delete-company   <id>

  energycrm crm add-deal         --name --company --contact --value [--project-type --capacity --probability --stage --close-date]
  energycrm crm list-deals       [--query --stage --project-type --where <expr> --limit]
  energycrm crm update-deal      [flags] <id>
  energycrm crm delete-deal      <id>

  energycrm crm log-activity     --subject --description [--type --contact --deal --outcome --follow-up]
  energycrm crm list-activities  [--query --type --outcome --where <expr> --limit]
  energycrm crm update-activity  [flags] <id>
  energycrm crm delete-activity  <id>
  energycrm crm followups        [--days --overdue-only --mine --limit]

  energycrm crm list-users
  energycrm crm set-user         <id or name>
  energycrm crm update-profile   [flags] [id]

  energycrm crm dashboard
  energycrm crm export           [--format json|yaml --output <file|->]
  energycrm crm import           <file> [--format json|yaml]
  energycrm crm clear-data       [--confirm]
  energycrm crm storage

VIZ COMMANDS:
  energycrm viz dashboard
  energycrm viz graph pipeline|all|company <id> [--output <file>]

Flags must come before positional IDs. Expressions use field names from the
export format, e.g. --where 'value > 5000000 && stage != "closed_lost"'.

ENVIRONMENT:
  ENERGYCRM_DATA_DIR, ENERGYCRM_BACKEND, ENERGYCRM_STORAGE_KEY,
  ENERGYCRM_STARTUP_POLICY (reseed|load), ENERGYCRM_ID_SCHEME (ulid|uuid),
  ENERGYCRM_CHARM_HOST, ENERGYCRM_AUTO_SYNC, ENERGYCRM_LOG_LEVEL, ENERGYCRM_WEB_ADDR

`, version)
}
