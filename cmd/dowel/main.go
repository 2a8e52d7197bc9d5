package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/dowel/internal/cli"
	"codeberg.org/snonux/dowel/internal/processor"
	"codeberg.org/snonux/dowel/internal/storage"
	"codeberg.org/snonux/dowel/internal/transport"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	var proc *processor.Processor
	var closeStore func()

	// Every handler needs the processor; it is built once flags are parsed.
	with := func(run func(ctx context.Context, cmd *cobra.Command, args []string) error) cli.RunFunc {
		return func(cmd *cobra.Command, args []string) error {
			var err error
			proc, closeStore, err = newProcessor(flags)
			if err != nil {
				return err
			}
			defer closeStore()
			return run(cmd.Context(), cmd, args)
		}
	}

	rootCmd := cli.CreateRootCommand(flags, cli.Handlers{
		Translate: with(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if flags.BatchFile != "" {
				return proc.TranslateBatch(ctx)
			}
			if len(args) == 0 {
				return fmt.Errorf("give a text to translate or use --batch")
			}
			return proc.TranslateText(ctx, args[0])
		}),
		AI: with(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return proc.Complete(ctx, args[0])
		}),
		Stream: with(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return proc.Stream(ctx, args[0])
		}),
		Models: with(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return proc.ListModels(ctx, args[0])
		}),
		Clip: with(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return proc.Clipboard(ctx)
		}),
		ConfigShow: with(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return proc.ShowConfig(ctx)
		}),
		ConfigProvider: with(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return proc.SaveProvider(ctx, cli.ProviderPatch(cmd, args[0]))
		}),
		ConfigTranslation: with(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return proc.SaveTranslation(ctx, cli.TranslationPatch(cmd, args[0]))
		}),
		ConfigProfile: with(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return proc.SaveAIProfile(ctx, cli.AIProfilePatch(cmd, args[0]))
		}),
		ConfigApp: with(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return proc.SaveApp(ctx, cli.AppSettingsPatch(cmd))
		}),
		ConfigHotkey: with(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return proc.SaveHotkey(ctx, cli.TranslationConfigPatch(cmd, args))
		}),
		UsageReset: with(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return proc.ResetUsage(ctx, name)
		}),
	})

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
		cli.ApplyConfig(flags)
		setupLogging(flags.Verbose)
	})

	// Ctrl+C cancels a running stream or batch
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// newProcessor opens the configured storage backend and transport.
func newProcessor(flags *cli.Flags) (*processor.Processor, func(), error) {
	port, err := storage.Open(flags.StoreBackend, flags.StoreDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	closeStore := func() {}
	if c, ok := port.(interface{ Close() error }); ok {
		closeStore = func() {
			if err := c.Close(); err != nil {
				slog.Warn("Failed to close storage", "error", err)
			}
		}
	}

	tp := transport.NewClient(transport.Options{
		Timeout:         flags.Timeout,
		BreakerFailures: flags.BreakerFailures,
		Logger:          slog.Default(),
	})

	return processor.NewProcessor(flags, port, tp,
		processor.WithArchiveDir(stateDir()),
		processor.WithLogger(slog.Default()),
	), closeStore, nil
}

func stateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "dowel")
}
