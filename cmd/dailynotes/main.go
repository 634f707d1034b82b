// Command dailynotes is the review-side client: it manages versions on the
// notes server and runs the meeting session that routes live transcript lines
// to the version under review.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/foxseedlab/dailynotes/external/backend"
	configloader "github.com/foxseedlab/dailynotes/external/config"
	"github.com/foxseedlab/dailynotes/internal/config"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

var (
	cfg      *config.ClientConfig
	injector do.Injector
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dailynotes",
		Short: "Take review notes during dailies",
		Long: `dailynotes talks to the notes server to manage the versions under review,
and joins a meeting with a transcription bot so that what is said about each
version lands in its transcript.

Configuration is read from the environment (DAILYNOTES_BACKEND_URL,
VEXA_API_URL, VEXA_API_KEY, ...).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := configloader.LoadClient()
			if err != nil {
				return err
			}
			cfg = loaded
			initLogger(cfg)
			injector = setupDI(cfg)
			return nil
		},
	}

	rootCmd.AddCommand(newVersionsCommand())
	rootCmd.AddCommand(newNotesCommand())
	rootCmd.AddCommand(newShotGridCommand())
	rootCmd.AddCommand(newMeetingCommand())

	return rootCmd
}

func initLogger(cfg *config.ClientConfig) {
	logLevel := slog.LevelWarn
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.ClientConfig) do.Injector {
	injector := do.New()
	do.ProvideValue(injector, cfg)
	backend.RegisterDI(injector)
	return injector
}

func backendClient() *backend.Client {
	return do.MustInvoke[*backend.Client](injector)
}
