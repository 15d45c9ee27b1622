package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roasbeef/revue/internal/baselib/actor"
	"github.com/roasbeef/revue/internal/build"
	"github.com/roasbeef/revue/internal/config"
	"github.com/roasbeef/revue/internal/db"
	"github.com/roasbeef/revue/internal/ingest"
	"github.com/roasbeef/revue/internal/llm"
	"github.com/roasbeef/revue/internal/review"
	"github.com/roasbeef/revue/internal/store"
	"github.com/roasbeef/revue/internal/web"
)

// daemonConfig is the on-disk configuration for revued. Flags override
// file values.
type daemonConfig struct {
	DBPath     string `yaml:"db_path"`
	ListenAddr string `yaml:"listen_addr"`
	LogLevel   string `yaml:"log_level"`
	LogDir     string `yaml:"log_dir"`
	APIKey     string `yaml:"api_key"`
}

func defaultDaemonConfig() daemonConfig {
	return daemonConfig{
		DBPath:     "~/.revue/revue.db",
		ListenAddr: web.DefaultAddr,
		LogLevel:   build.DefaultLogLevel,
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "revued: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		dbPath     = flag.String("db", "", "Path to SQLite database")
		addr       = flag.String("addr", "", "Web server listen address")
		logLevel   = flag.String("loglevel", "", "Log level (trace, debug, info, warn, error)")
		logDir     = flag.String("logdir", "", "Directory for the rotating log file (empty for console only)")
		apiKey     = flag.String("apikey", "", "Gemini API key (defaults to $GEMINI_API_KEY)")
	)
	flag.Parse()

	cfg := defaultDaemonConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	}

	// Flags override file values.
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logDir != "" {
		cfg.LogDir = *logDir
	}
	if *apiKey != "" {
		cfg.APIKey = *apiKey
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	dbFile, err := expandHome(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dbFile), 0o700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// Set up logging. Every subsystem gets a tagged logger off the
	// shared handler set.
	logMgr, err := build.NewLogManager(&build.LogConfig{
		Level:  cfg.LogLevel,
		LogDir: cfg.LogDir,
	})
	if err != nil {
		return err
	}
	defer logMgr.Close()

	log := logMgr.NewSubLogger("RVUD")
	actor.UseLogger(logMgr.NewSubLogger("ACTR"))
	config.UseLogger(logMgr.NewSubLogger("CNFG"))
	review.UseLogger(logMgr.NewSubLogger("REVW"))
	llm.UseLogger(logMgr.NewSubLogger("LLM"))
	ingest.UseLogger(logMgr.NewSubLogger("INGT"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the database and apply migrations.
	dbLog := slog.Default()
	sqlDB, err := db.Open(dbFile, dbLog)
	if err != nil {
		return err
	}
	st := store.NewSQLStore(db.NewBaseDB(sqlDB), dbLog)
	defer st.Close()

	log.InfoS(ctx, "Database opened", "path", dbFile)

	// Create the actor system and the two service actors.
	actorSystem := actor.NewActorSystem()

	cfgRef := actor.RegisterWithSystem(
		actorSystem, "config-service", config.ServiceKey,
		config.NewService(ctx, st),
	)

	reviewSvc := review.NewService(review.ServiceConfig{
		Store:     st,
		Gateway:   llm.NewGeminiGateway(cfg.APIKey),
		Config:    config.NewProvider(cfgRef),
		Extractor: ingest.NewExtractor(),
	})

	// Pipelines stranded by a previous crash cannot resume their
	// model calls, so mark them failed before accepting traffic.
	if err := reviewSvc.RecoverSubmissions(ctx); err != nil {
		return fmt.Errorf("recover submissions: %w", err)
	}

	subRef := actor.RegisterWithSystem(
		actorSystem, "submission-service",
		review.SubmissionServiceKey, reviewSvc,
	)

	webServer, err := web.NewServer(&web.Config{
		Addr:          cfg.ListenAddr,
		Submissions:   subRef,
		ConfigService: cfgRef,
	})
	if err != nil {
		return err
	}
	reviewSvc.SetNotifier(webServer.Notifier())

	if cfg.APIKey == "" {
		log.WarnS(ctx, "No Gemini API key configured, submissions "+
			"will fail until one is set", nil)
	}

	// Serve until a signal arrives.
	errCh := make(chan error, 1)
	go func() {
		log.InfoS(ctx, "Web server starting",
			"addr", cfg.ListenAddr)
		if err := webServer.Start(); err != nil &&
			err != http.ErrServerClosed {

			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.InfoS(ctx, "Shutting down", "signal", sig.String())
	case err := <-errCh:
		return fmt.Errorf("web server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(), 10*time.Second,
	)
	defer shutdownCancel()

	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.ErrorS(shutdownCtx, "Web server shutdown failed", err)
	}
	if err := actorSystem.Shutdown(shutdownCtx); err != nil {
		log.ErrorS(shutdownCtx, "Actor system shutdown failed", err)
	}

	return nil
}

// expandHome resolves a leading ~ in a path against the home directory.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
