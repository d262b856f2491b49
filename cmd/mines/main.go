package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/ship-commander/mines/internal/config"
	"github.com/ship-commander/mines/internal/events"
	"github.com/ship-commander/mines/internal/logging"
	"github.com/ship-commander/mines/internal/telemetry"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger, err := logging.New(ctx, logging.WithLevel(level))
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "failed to close logger: %v\n", closeErr)
		}
	}()

	if cfg.Telemetry {
		telemetry.ServiceVersion = Version
		shutdown, err := telemetry.Init(ctx, telemetry.Settings{Endpoint: cfg.OTELEndpoint})
		if err != nil {
			return fmt.Errorf("initialize telemetry: %w", err)
		}
		defer shutdown()
	}

	cmd := newRootCommand(cfg, logger.Logger)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCommand(cfg *config.Config, logger *log.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "mines",
		Short:         "Minesweeper in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}

	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")
	root.AddCommand(
		newPlayCommand(cfg, logger),
		newScriptCommand(cfg, logger),
		newPresetsCommand(cfg),
		newRulesCommand(),
		newSoakCommand(cfg, logger),
		newBugreportCommand(logger),
	)

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if logger == nil {
			return errors.New("logger is required")
		}
		if cfg == nil {
			return errors.New("config is required")
		}
		logger.With("command", cmd.Name()).Debug("command invocation")
		return nil
	}

	return root
}

// newEventBus logs every game event at debug level.
func newEventBus(logger *log.Logger) *events.InMemoryBus {
	bus := events.New(events.WithLogger(logger))
	bus.SubscribeAll(func(event events.Event) {
		logger.Debug("game event", "type", event.Type, "session_id", event.SessionID, "payload", event.Payload)
	})
	return bus
}
