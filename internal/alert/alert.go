package alert

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exam-countdown/internal/countdown"
)

// ErrNoCommand indicates the alert command line was empty.
var ErrNoCommand = errors.New("alert command is empty")

// Player plays a sound file.
type Player interface {
	Play(ctx context.Context, sound string) error
}

// NopPlayer discards every alert.
type NopPlayer struct{}

// Play does nothing.
func (NopPlayer) Play(context.Context, string) error { return nil }

// CommandPlayer plays sounds by running an external program such as paplay
// or afplay with the sound path appended to its arguments.
type CommandPlayer struct {
	path string
	args []string
}

// NewCommandPlayer resolves commandLine ("paplay --volume 65536") on PATH.
func NewCommandPlayer(commandLine string) (*CommandPlayer, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, ErrNoCommand
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return nil, fmt.Errorf("lookup alert command: %w", err)
	}
	return &CommandPlayer{path: path, args: fields[1:]}, nil
}

// Play runs the command and waits for it to exit.
func (p *CommandPlayer) Play(ctx context.Context, sound string) error {
	args := append(append([]string(nil), p.args...), sound)
	output, err := exec.CommandContext(ctx, p.path, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", p.path, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Config maps countdown events to sound files.
type Config struct {
	WarningSound string
	EndedSound   string
	Timeout      time.Duration
}

// Dispatcher turns countdown events into audible alerts. Playback runs in the
// background; errors and panics are logged and never reach the caller.
type Dispatcher struct {
	player  Player
	sounds  map[countdown.EventKind]string
	timeout time.Duration
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. A nil player disables playback.
func NewDispatcher(player Player, config Config, log zerolog.Logger) *Dispatcher {
	if player == nil {
		player = NopPlayer{}
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &Dispatcher{
		player: player,
		sounds: map[countdown.EventKind]string{
			countdown.EventWarningThresholdCrossed: config.WarningSound,
			countdown.EventExamEnded:               config.EndedSound,
		},
		timeout: config.Timeout,
		log:     log.With().Str("component", "alert_dispatcher").Logger(),
	}
}

// Dispatch starts playback for event and returns immediately.
func (d *Dispatcher) Dispatch(event countdown.Event) {
	sound := d.sounds[event.Kind]
	if sound == "" {
		d.log.Debug().Str("kind", string(event.Kind)).Msg("No sound configured")
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error().Interface("panic", r).Str("kind", string(event.Kind)).Msg("Alert playback panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.player.Play(ctx, sound); err != nil {
			d.log.Warn().Err(err).Str("kind", string(event.Kind)).Str("sound", sound).Msg("Alert playback failed")
			return
		}
		d.log.Info().Str("kind", string(event.Kind)).Msg("Alert played")
	}()
}

// Wait blocks until every in-flight playback has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
