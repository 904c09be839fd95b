package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/jrchoo/ip/internal/command"
	"github.com/jrchoo/ip/internal/config"
	"github.com/jrchoo/ip/internal/console"
	"github.com/jrchoo/ip/internal/db"
	"github.com/jrchoo/ip/internal/logger"
	"github.com/jrchoo/ip/internal/storage"
	"github.com/jrchoo/ip/internal/tui"
	"github.com/jrchoo/ip/internal/web"
)

var (
	_ command.Gateway = (*storage.FileStore)(nil)
	_ command.Gateway = (*db.Store)(nil)
)

func main() {
	configPathFlag := flag.String("config", "", "config file path")
	dataPathFlag := flag.String("data", "", "task file path")
	backendFlag := flag.String("backend", "", "storage backend (file or sqlite)")
	dbPathFlag := flag.String("db", "", "sqlite db path")
	consoleFlag := flag.Bool("console", false, "use the plain line console instead of the TUI")
	webFlag := flag.Bool("web", false, "enable web server")
	webOnlyFlag := flag.Bool("web-only", false, "run web server only")
	portFlag := flag.Int("port", 0, "web server port")
	logPathFlag := flag.String("log", "", "log file path")
	devFlag := flag.Bool("dev", false, "development logging")
	flag.Parse()

	cfgPath, err := resolveConfigPath(*configPathFlag)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	if *dataPathFlag != "" {
		cfg.DataPath = *dataPathFlag
	}
	if *backendFlag != "" {
		cfg.Backend = *backendFlag
	}
	if *dbPathFlag != "" {
		cfg.DBPath = *dbPathFlag
	}
	if *consoleFlag {
		cfg.Frontend = config.FrontendConsole
	}
	if *webFlag || *webOnlyFlag {
		cfg.WebEnabled = true
	}
	if *portFlag != 0 {
		cfg.WebPort = *portFlag
	}
	if *logPathFlag != "" {
		cfg.LogPath = *logPathFlag
	}
	if *devFlag {
		cfg.LogDevelopment = true
	}
	cfg.ApplyDefaults(cfgPath)

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		log.Fatal(err)
	}

	if err := config.EnsureDir(cfg.LogPath); err != nil {
		log.Fatal(err)
	}
	if err := logger.Init(cfg.LogDevelopment, cfg.LogPath); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	store, closeStore, err := openGateway(cfg)
	if err != nil {
		logger.Error("open store failed", err, zap.String("backend", cfg.Backend))
		log.Fatal(err)
	}
	defer closeStore()

	ctx := context.Background()
	handler := command.NewSerialized(command.New(command.Load(ctx, store), store))
	logger.Info("session started",
		zap.String("backend", cfg.Backend),
		zap.String("frontend", cfg.Frontend),
		zap.Int("tasks", len(handler.Tasks())),
	)

	if cfg.WebEnabled {
		addr := fmt.Sprintf(":%d", cfg.WebPort)
		server := web.NewServer(handler).Handler()
		if *webOnlyFlag {
			log.Printf("Web server running at http://localhost%s", addr)
			logger.Info("web server listening", zap.String("addr", addr))
			if err := http.ListenAndServe(addr, server); err != nil {
				logger.Error("web server stopped", err)
				log.Fatal(err)
			}
			return
		}

		go func() {
			logger.Info("web server listening", zap.String("addr", addr))
			if err := http.ListenAndServe(addr, server); err != nil {
				logger.Error("web server stopped", err)
			}
		}()
	}

	if err := runFrontend(ctx, cfg, handler); err != nil {
		logger.Error("front end stopped", err)
		fmt.Fprintln(os.Stderr, err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("session ended")
}

func runFrontend(ctx context.Context, cfg config.Config, handler command.Handler) error {
	if cfg.Frontend == config.FrontendConsole {
		return console.Run(ctx, os.Stdin, os.Stdout, handler)
	}
	return tui.Run(handler)
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

func openGateway(cfg config.Config) (command.Gateway, func(), error) {
	if cfg.Backend == config.BackendSQLite {
		if err := config.EnsureDir(cfg.DBPath); err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		store := db.NewStore(sqlDB)
		return store, func() { _ = store.Close() }, nil
	}

	return storage.NewFileStore(cfg.DataPath), func() {}, nil
}
