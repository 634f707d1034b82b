package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	transcriberimpl "github.com/foxseedlab/dailynotes/external/transcriber"
	"github.com/foxseedlab/dailynotes/internal/session"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func newMeetingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "meeting <meeting-url>",
		Short: "Join a meeting and route its transcript to the selected version",
		Long: `Join a meeting with a transcription bot and open an interactive prompt.

Select a version to start routing: every transcript line spoken after the
selection is appended to that version's transcript on the server. Lines spoken
before the selection are never attributed to it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ValidateMeeting(); err != nil {
				return err
			}
			return runMeeting(cmd.Context(), args[0])
		},
	}
}

func runMeeting(ctx context.Context, meetingURL string) error {
	out := &lockedWriter{w: os.Stdout}

	do.ProvideValue(injector, session.IncrementListener(func(versionID, increment string) {
		fmt.Fprintf(out, "[%s] %s\n", versionID, increment)
	}))
	transcriberimpl.RegisterDI(injector)
	session.RegisterDI(injector)

	manager, err := do.Invoke[*session.Manager](injector)
	if err != nil {
		return fmt.Errorf("failed to resolve session manager: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		if err := manager.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("meeting session stopped", "error", err)
		}
	}()
	defer func() {
		cancel()
		<-runDone
	}()

	meetingID, err := manager.Join(ctx, meetingURL)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, session.JoinedMessage(meetingID))

	r := &repl{session: manager, notes: backendClient(), out: out, now: time.Now}
	return r.run(ctx, os.Stdin)
}
