package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/plucktv/plucktv/internal/catalog"
	"github.com/plucktv/plucktv/internal/database"
	internalhttp "github.com/plucktv/plucktv/internal/http"
	"github.com/plucktv/plucktv/internal/http/handlers"
	"github.com/plucktv/plucktv/internal/observability"
	"github.com/plucktv/plucktv/internal/repository"
	"github.com/plucktv/plucktv/internal/service"
	"github.com/plucktv/plucktv/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the plucktv server",
	Long: `Start the plucktv HTTP server and API.

The server provides:
- REST API for catalog discovery, materialization and playlist management
- Raw M3U rendering at /playlist/{id}.m3u
- Health check endpoint
- OpenAPI documentation at /docs`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "host to bind to")
	serveCmd.Flags().Int("port", 0, "port to listen on")
	serveCmd.Flags().String("database", "", "database DSN (file path for sqlite)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Serve flags override config/env only when explicitly set.
	if host, ok := flagString(cmd.Flags(), "host"); ok {
		cfg.Server.Host = host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if dsn, ok := flagString(cmd.Flags(), "database"); ok {
		cfg.Database.DSN = dsn
	}

	logger := observability.NewLoggerWithWriter(cfg.Logging, os.Stderr)
	observability.SetDefault(logger)

	db, err := database.New(cfg.Database, logger, nil)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	playlistRepo := repository.NewPlaylistRepository(db.DB)
	playlistService := service.NewPlaylistService(playlistRepo, logger)

	janitor := service.NewJanitor(playlistRepo, logger, cfg.Retention)
	if err := janitor.Start(); err != nil {
		return fmt.Errorf("starting retention janitor: %w", err)
	}
	defer janitor.Stop()

	fetcher, err := catalog.New(catalog.Strategy(cfg.Catalog.Strategy), catalog.Options{
		Logger:          observability.WithComponent(logger, "catalog"),
		HTTPClient:      &http.Client{Timeout: cfg.Catalog.HTTPTimeout},
		UserAgent:       version.UserAgent(),
		SeriesBatchSize: cfg.Catalog.SeriesBatchSize,
		MaxSeries:       cfg.Catalog.MaxSeries,
		VODLimit:        cfg.Catalog.VODLimit,
	})
	if err != nil {
		return fmt.Errorf("initializing catalog fetcher: %w", err)
	}

	serverConfig := internalhttp.DefaultServerConfig()
	serverConfig.Host = cfg.Server.Host
	serverConfig.Port = cfg.Server.Port
	serverConfig.ReadTimeout = cfg.Server.ReadTimeout
	serverConfig.WriteTimeout = cfg.Server.WriteTimeout
	serverConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	serverConfig.CORSOrigins = cfg.Server.CORSOrigins

	server := internalhttp.NewServer(serverConfig, logger, version.Version)

	healthHandler := handlers.NewHealthHandler(version.Version).WithDB(db)
	healthHandler.Register(server.API())

	catalogHandler := handlers.NewCatalogHandler(fetcher, cfg.Catalog.Timeout, logger)
	catalogHandler.Register(server.API())

	playlistHandler := handlers.NewPlaylistHandler(playlistService, logger)
	playlistHandler.Register(server.API())
	playlistHandler.RegisterRoutes(server.Router())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		cancel()
	}()

	logger.Info("starting plucktv server",
		slog.String("address", cfg.Server.Host+":"+strconv.Itoa(cfg.Server.Port)),
		slog.String("strategy", cfg.Catalog.Strategy),
		slog.String("version", version.Version),
	)

	return server.ListenAndServe(ctx)
}
