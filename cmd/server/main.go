package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/arcyniiegas/elysium/internal/cache"
	"github.com/arcyniiegas/elysium/internal/catalog"
	"github.com/arcyniiegas/elysium/internal/env"
	"github.com/arcyniiegas/elysium/internal/gate"
	"github.com/arcyniiegas/elysium/internal/journey"
	"github.com/arcyniiegas/elysium/internal/localdb"
	"github.com/arcyniiegas/elysium/internal/output"
	"github.com/arcyniiegas/elysium/internal/settings"
	"github.com/arcyniiegas/elysium/internal/shared/logger"
	"github.com/arcyniiegas/elysium/internal/shared/paths"
	"github.com/arcyniiegas/elysium/internal/version"
	"github.com/arcyniiegas/elysium/internal/webserver"
	"go.uber.org/zap"
)

func main() {
	logger.Init(false)
	defer logger.Sync()

	logger.Info("Starting elysium server", zap.String("version", version.String()))

	if err := paths.EnsureDataDirs(); err != nil {
		logger.Fatal("Failed to ensure data directories", zap.Error(err))
	}

	db, err := localdb.SetupDB(paths.GetDBPath())
	if err != nil {
		logger.Fatal("Failed to setup database", zap.Error(err))
	}

	// env.LoadEnv must run after DB initialization.
	env.LoadEnv()

	sm := settings.NewSettingsManager(db)
	if err := sm.MigrateFromEnv(); err != nil {
		logger.Warn("Settings migration from environment failed", zap.Error(err))
	}
	env.ReloadFromDatabase(db)

	if env.Value.DebugMode {
		logger.Init(true)
		logger.Info("Debug mode enabled")
	}

	if env.Value.DisableCache {
		logger.Info("Voice cache disabled by environment variable DISABLE_CACHE=true")
	} else if err := cache.InitializeCache(); err != nil {
		logger.Error("Failed to initialize voice cache", zap.Error(err))
	}

	store := journey.NewBlobStore()
	engine := journey.NewEngine(store)

	restored := engine.Snapshot().Unlocked
	gateMachine := gate.New(env.Value.GateRememberUnlock, restored, func(unlocked bool) {
		engine.SetUnlocked(unlocked)
	})

	// Warm the narration cache for echoes already won, so playback never
	// waits on the network.
	if !env.Value.DisableCache {
		go func() {
			for _, id := range engine.Snapshot().CollectedEchoes {
				if url, ok := catalog.VoiceArchiveURL(id); ok {
					cache.FetchRemoteAsset(url)
				}
			}
		}()
	}

	if err := webserver.StartWebServer(env.Value.ServerPort, engine, gateMachine); err != nil {
		logger.Fatal("Failed to start web server", zap.Error(err))
	}

	logger.Info("Server started",
		zap.Int("port", env.Value.ServerPort),
		zap.Bool("dry_run", env.Value.DryRunMode))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")

	webserver.Shutdown()
	output.Stop()
	localdb.Close()

	logger.Info("Shutdown complete")
}
