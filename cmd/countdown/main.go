// Command countdown runs a single exam countdown in the terminal.
//
//	countdown -board Cambridge -subject 0580 -date 2025-06-10 -start 09:00 -end 11:00
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/stemsi/exam-countdown/internal/alert"
	"github.com/stemsi/exam-countdown/internal/broadcast"
	"github.com/stemsi/exam-countdown/internal/catalog"
	"github.com/stemsi/exam-countdown/internal/config"
	"github.com/stemsi/exam-countdown/internal/countdown"
	"github.com/stemsi/exam-countdown/internal/display"
	"github.com/stemsi/exam-countdown/internal/logger"
	"github.com/stemsi/exam-countdown/internal/model"
	"github.com/stemsi/exam-countdown/internal/service"
)

func main() {
	var (
		board     string
		subject   string
		name      string
		date      string
		start     string
		end       string
		venue     string
		classroom string
		list      bool
	)
	flag.StringVar(&board, "board", "", "Exam board, e.g. Cambridge")
	flag.StringVar(&subject, "subject", "", "Subject code, e.g. 0580")
	flag.StringVar(&name, "name", "", "Subject name (defaults to the catalog name)")
	flag.StringVar(&date, "date", time.Now().Format("2006-01-02"), "Exam date (YYYY-MM-DD)")
	flag.StringVar(&start, "start", "", "Start time (HH:MM, 24-hour)")
	flag.StringVar(&end, "end", "", "End time (HH:MM, 24-hour)")
	flag.StringVar(&venue, "venue", "", "Centre code (defaults to the board's centre)")
	flag.StringVar(&classroom, "room", "", "Classroom")
	flag.BoolVar(&list, "list", false, "List boards and subjects, then exit")
	flag.Parse()

	cfg := config.Load()
	log := logger.SetupWriter(cfg.LogLevel, "pretty", os.Stderr)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}

	if list {
		printCatalog(cat)
		return
	}

	if board == "" || subject == "" || start == "" || end == "" {
		flag.Usage()
		os.Exit(2)
	}

	var player alert.Player = alert.NopPlayer{}
	if cfg.AlertCommand != "" {
		if p, err := alert.NewCommandPlayer(cfg.AlertCommand); err != nil {
			log.Warn().Err(err).Msg("Audio alerts disabled")
		} else {
			player = p
		}
	}
	alerts := alert.NewDispatcher(player, alert.Config{
		WarningSound: cfg.AlertWarningSound,
		EndedSound:   cfg.AlertEndedSound,
		Timeout:      cfg.AlertTimeout,
	}, log)

	// Info logs would interleave with the redrawn line.
	sessionService := service.NewSessionService(cat, broadcast.NewHub(), alerts, service.SessionConfig{
		TickInterval: cfg.TickInterval,
	}, log.Level(zerolog.WarnLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	frames, unsubscribe := sessionService.Subscribe(4)
	defer unsubscribe()

	view, err := sessionService.Start(ctx, model.StartSessionRequest{
		Board:     board,
		Subject:   model.SubjectRef{Name: name, Code: subject},
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Venue:     venue,
		Classroom: classroom,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}

	screen := display.NewTerminal(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
	screen.Header(view.Exam)

	code := run(ctx, screen, frames)
	screen.Close()
	sessionService.Shutdown()
	os.Exit(code)
}

// run renders frames until the exam ends (exit 0) or ctx is cancelled (exit 130).
func run(ctx context.Context, screen *display.Terminal, frames <-chan model.Frame) int {
	for {
		select {
		case <-ctx.Done():
			return 130
		case frame, ok := <-frames:
			if !ok {
				return 1
			}
			screen.Render(frame)
			if frame.Phase == countdown.PhaseEnded {
				return 0
			}
		}
	}
}

func describe(err error) string {
	var invalid *countdown.InvalidScheduleError
	switch {
	case errors.As(err, &invalid):
		return fmt.Sprintf("Invalid %s %q: %s", strings.ReplaceAll(invalid.Field, "_", " "), invalid.Value, invalid.Reason)
	case errors.Is(err, catalog.ErrUnknownBoard), errors.Is(err, catalog.ErrUnknownSubject):
		return err.Error() + " (run with -list to see the catalog)"
	default:
		return err.Error()
	}
}

func printCatalog(cat *catalog.Catalog) {
	for _, b := range cat.Boards() {
		fmt.Printf("%s (centre %s)\n", b.Name, b.Venue)
		for _, s := range b.Subjects {
			fmt.Printf("  %-8s %s\n", s.Code, s.Name)
		}
	}
}
