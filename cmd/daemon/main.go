package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/genricoloni/playstatus/internal/config"
	"github.com/genricoloni/playstatus/internal/controller"
	"github.com/genricoloni/playstatus/internal/display"
	"github.com/genricoloni/playstatus/internal/domain"
	"github.com/genricoloni/playstatus/internal/engine"
	"github.com/genricoloni/playstatus/internal/monitor"
	"github.com/genricoloni/playstatus/internal/settings"
	"github.com/genricoloni/playstatus/internal/titleformat"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// AppOptions wires the whole daemon. Tests reuse it with decorated dependencies.
var AppOptions = fx.Options(
	// Logger configuration
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),

	// Provide dependencies
	fx.Provide(
		newLogger,
		config.NewAppConfig,
		fx.Annotate(titleformat.NewCompiler, fx.As(new(domain.TemplateCompiler))),
		newSettingsStore,
		newSettingsWatcher,
		newMonitor,
		newDisplay,
		newController,
		newEngine,
	),

	// Lifecycle hooks
	fx.Invoke(registerHooks),
)

func main() {
	app := fx.New(AppOptions)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start the application
	if err := app.Start(ctx); err != nil {
		panic(err)
	}

	// Wait for interrupt signal
	<-ctx.Done()

	// Stop the application gracefully
	if err := app.Stop(context.Background()); err != nil {
		panic(err)
	}
}

// newLogger creates a new zap logger instance
func newLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func newSettingsStore(logger *zap.Logger, cfg *config.AppConfig) (domain.SettingsStore, error) {
	store, err := settings.NewFileStore(logger, cfg.GetSettingsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}
	return store, nil
}

func newSettingsWatcher(logger *zap.Logger, cfg *config.AppConfig) domain.SettingsWatcher {
	return settings.NewWatcher(logger, cfg.GetSettingsPath())
}

func newMonitor(logger *zap.Logger, cfg *config.AppConfig) domain.Monitor {
	return monitor.NewMprisMonitor(logger, cfg.GetPreferredPlayer())
}

func newDisplay(logger *zap.Logger, cfg *config.AppConfig) domain.Display {
	if cfg.GetDisplay() == config.DisplayImage {
		return display.NewImageDisplay(logger, cfg.GetOutputDir(), cfg.GetWidth())
	}
	return display.NewTerminalDisplay(logger, os.Stdout, cfg.GetWidth())
}

func newController(
	logger *zap.Logger,
	cfg *config.AppConfig,
	mon domain.Monitor,
	compiler domain.TemplateCompiler,
	store domain.SettingsStore,
	disp domain.Display,
) *controller.Controller {
	return controller.New(logger, mon, compiler, store, disp, cfg.GetMaxLen())
}

func newEngine(
	logger *zap.Logger,
	mon domain.Monitor,
	watcher domain.SettingsWatcher,
	ctrl *controller.Controller,
) *engine.Engine {
	return engine.NewEngine(logger, mon, watcher, ctrl)
}

// registerHooks sets up application lifecycle hooks
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	mon domain.Monitor,
	watcher domain.SettingsWatcher,
	disp domain.Display,
	ctrl *controller.Controller,
	eng *engine.Engine,
) {
	// Components outlive the start context
	runCtx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Without a player bus the widget keeps showing the idle line
			if err := mon.Start(runCtx); err != nil {
				logger.Warn("Player monitor unavailable", zap.Error(err))
			}
			if err := watcher.Start(runCtx); err != nil {
				logger.Warn("Settings watcher unavailable", zap.Error(err))
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := disp.Run(runCtx, ctrl); err != nil {
					logger.Error("Display stopped", zap.Error(err))
				}
			}()

			if err := eng.Start(runCtx); err != nil {
				cancel()
				return err
			}
			logger.Info("Playstatus Daemon Started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")

			// The engine stops the refresh timer before the display goes away
			err := eng.Stop(ctx)
			cancel()
			wg.Wait()

			err = multierr.Append(err, mon.Stop(ctx))
			err = multierr.Append(err, watcher.Stop())
			return err
		},
	})
}
