// Meetingd is a meeting transcription daemon with HTTP/SSE transport.
//
// The daemon ingests live transcription webhooks, maintains per-session
// transcripts, regenerates heuristic notes on every finalized line, fans
// events out over NATS, and extracts action items through a completion
// backend.
//
// Usage:
//
//	# Start with defaults (embedded config)
//	meetingd
//
//	# Start with a config file
//	meetingd -config /etc/meetingd/config.yaml
//
//	# Configure via environment
//	MEETINGD_SERVER_HTTP_PORT=9000 MEETINGD_BUS_EMBEDDED=true meetingd
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/meetingd/internal/bus"
	"github.com/fyrsmithlabs/meetingd/internal/completion"
	"github.com/fyrsmithlabs/meetingd/internal/config"
	"github.com/fyrsmithlabs/meetingd/internal/httpapi"
	"github.com/fyrsmithlabs/meetingd/internal/ingest"
	"github.com/fyrsmithlabs/meetingd/internal/logging"
	"github.com/fyrsmithlabs/meetingd/internal/notes"
	"github.com/fyrsmithlabs/meetingd/internal/tasks"
	"github.com/fyrsmithlabs/meetingd/internal/transcript"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  meetingd           Start the meetingd daemon\n")
			fmt.Fprintf(os.Stderr, "  meetingd version   Show version information\n")
			os.Exit(1)
		}
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("meetingd by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the meetingd server and blocks until context cancellation.
//
// Initialization order:
//  1. Load and validate configuration
//  2. Initialize logger
//  3. Connect to NATS (or start an embedded server)
//  4. Build services (completion client, task extraction, notes)
//  5. Wire the HTTP server and optional drop-directory ingest
//  6. Serve until cancelled, then shut down gracefully
func run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting meetingd",
		zap.Int("port", cfg.Server.Port),
		zap.String("completion_model", cfg.Completion.Model),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout.Duration()))

	deps, err := initDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	logger.Info("Dependencies initialized",
		zap.Bool("nats_connected", deps.natsConn != nil),
		zap.Bool("embedded_bus", deps.natsServer != nil))

	keywords, err := notes.LoadKeywords(cfg.Notes.KeywordsPath)
	if err != nil {
		return fmt.Errorf("failed to load notes keywords: %w", err)
	}

	client := completion.NewClient(cfg.Completion, logger)
	taskSvc := tasks.NewService(client, logger)

	srv, err := httpapi.NewServer(httpapi.Deps{
		Sessions:  transcript.NewRegistry(),
		Notes:     notes.NewGenerator(keywords),
		Tasks:     taskSvc,
		Publisher: bus.NewPublisher(deps.natsConn, logger),
		NATS:      deps.natsConn,
	}, logger, &httpapi.Config{Host: "0.0.0.0", Port: cfg.Server.Port})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	if cfg.Ingest.Enabled {
		watcher, err := ingest.NewWatcher(cfg.Ingest.Dir, srv.IngestEvent, logger)
		if err != nil {
			return fmt.Errorf("failed to create ingest watcher: %w", err)
		}
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("failed to start ingest watcher: %w", err)
		}
		defer watcher.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// dependencies holds infrastructure resources that need cleanup.
type dependencies struct {
	natsConn   *nats.Conn
	natsServer *natsserver.Server
}

// Close releases infrastructure resources.
func (d *dependencies) Close() {
	if d.natsConn != nil {
		d.natsConn.Close()
	}
	if d.natsServer != nil {
		d.natsServer.Shutdown()
		d.natsServer.WaitForShutdown()
	}
}

// initDependencies connects to NATS, starting an in-process server first
// when the bus is configured as embedded.
func initDependencies(cfg *config.Config, logger *zap.Logger) (*dependencies, error) {
	deps := &dependencies{}

	natsURL := cfg.Bus.URL
	if cfg.Bus.Embedded {
		ns, err := startEmbeddedNATS()
		if err != nil {
			return nil, fmt.Errorf("failed to start embedded NATS: %w", err)
		}
		deps.natsServer = ns
		natsURL = ns.ClientURL()
		logger.Info("Embedded NATS started", zap.String("url", natsURL))
	}

	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(1*time.Second),
	)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", natsURL, err)
	}
	deps.natsConn = nc

	logger.Info("Connected to NATS", zap.String("url", natsURL))
	return deps, nil
}

// startEmbeddedNATS runs an in-process NATS server on a random loopback
// port.
func startEmbeddedNATS() (*natsserver.Server, error) {
	opts := &natsserver.Options{
		Host:   "127.0.0.1",
		Port:   -1, // Random port
		NoLog:  true,
		NoSigs: true,
	}

	ns, err := natsserver.NewServer(opts)
	if err != nil {
		return nil, err
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("embedded NATS server not ready")
	}
	return ns, nil
}
