package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/foxseedlab/dailynotes/internal/repository"
	"github.com/foxseedlab/dailynotes/internal/session"
)

const replHelp = `Commands:
  select <id>        route transcript lines to a version
  deselect           stop routing transcript lines
  note <text>        add a note to the selected version
  language <code>    change the transcription language
  status             show the meeting and routing state
  leave              leave the meeting and exit
  quit               exit (the bot leaves the meeting)`

type meetingSession interface {
	Leave(ctx context.Context) error
	Select(ctx context.Context, versionID string) (*repository.Version, error)
	Deselect(ctx context.Context) error
	UpdateLanguage(ctx context.Context, language string) error
	Status(ctx context.Context) (session.Status, error)
}

type noteTaker interface {
	AddNote(ctx context.Context, id, text string) (*repository.Version, error)
}

// lockedWriter serializes REPL output with transcript lines printed from the
// session goroutine.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

type repl struct {
	session meetingSession
	notes   noteTaker
	out     io.Writer
	now     func() time.Time
}

// run reads commands until leave, quit, end of input or ctx is done.
func (r *repl) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(r.out, `Type "help" for commands.`)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			done, err := r.handle(ctx, line)
			if err != nil {
				fmt.Fprintln(r.out, "Error:", err)
			}
			if done {
				return nil
			}
		}
	}
}

func (r *repl) handle(ctx context.Context, line string) (bool, error) {
	command, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case "":
		return false, nil
	case "help", "?":
		fmt.Fprintln(r.out, replHelp)
	case "select":
		if arg == "" {
			return false, errors.New("usage: select <id>")
		}
		v, err := r.session.Select(ctx, arg)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, session.SelectedMessage(v.ID, v.Name))
	case "deselect":
		if err := r.session.Deselect(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, "Routing stopped.")
	case "note":
		return false, r.addNote(ctx, arg)
	case "language", "lang":
		if arg == "" {
			return false, errors.New("usage: language <code>")
		}
		if err := r.session.UpdateLanguage(ctx, arg); err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, session.LanguageMessage(arg))
	case "status":
		st, err := r.session.Status(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, session.FormatStatus(st, r.now()))
	case "leave":
		st, err := r.session.Status(ctx)
		if err != nil {
			return false, err
		}
		if err := r.session.Leave(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, session.LeftMessage(st.MeetingID))
		return true, nil
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q, type \"help\"", command)
	}
	return false, nil
}

func (r *repl) addNote(ctx context.Context, text string) error {
	if text == "" {
		return errors.New("usage: note <text>")
	}
	st, err := r.session.Status(ctx)
	if err != nil {
		return err
	}
	if st.VersionID == "" {
		return errors.New("no version selected")
	}
	if _, err := r.notes.AddNote(ctx, st.VersionID, text); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Note added to %s.\n", st.VersionID)
	return nil
}
