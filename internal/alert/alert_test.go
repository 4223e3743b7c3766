package alert

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/exam-countdown/internal/countdown"
)

type recordingPlayer struct {
	mu     sync.Mutex
	played []string
	err    error
	panics bool
}

func (p *recordingPlayer) Play(ctx context.Context, sound string) error {
	if p.panics {
		panic("device gone")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, sound)
	return p.err
}

func TestDispatcherPlaysMappedSound(t *testing.T) {
	player := &recordingPlayer{}
	dispatcher := NewDispatcher(player, Config{WarningSound: "warn.wav", EndedSound: "end.wav"}, zerolog.Nop())

	dispatcher.Dispatch(countdown.Event{Kind: countdown.EventWarningThresholdCrossed, At: time.Now()})
	dispatcher.Dispatch(countdown.Event{Kind: countdown.EventExamEnded, At: time.Now()})
	dispatcher.Wait()

	assert.ElementsMatch(t, []string{"warn.wav", "end.wav"}, player.played)
}

func TestDispatcherSkipsUnmappedSound(t *testing.T) {
	player := &recordingPlayer{}
	dispatcher := NewDispatcher(player, Config{WarningSound: "warn.wav"}, zerolog.Nop())

	dispatcher.Dispatch(countdown.Event{Kind: countdown.EventExamEnded})
	dispatcher.Wait()

	assert.Empty(t, player.played)
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	failing := NewDispatcher(&recordingPlayer{err: errors.New("playback blocked")}, Config{EndedSound: "end.wav"}, log)
	failing.Dispatch(countdown.Event{Kind: countdown.EventExamEnded})
	failing.Wait()
	assert.Contains(t, buf.String(), "playback blocked")

	buf.Reset()
	panicking := NewDispatcher(&recordingPlayer{panics: true}, Config{EndedSound: "end.wav"}, log)
	require.NotPanics(t, func() {
		panicking.Dispatch(countdown.Event{Kind: countdown.EventExamEnded})
		panicking.Wait()
	})
	assert.Contains(t, buf.String(), "device gone")
}

func TestNewCommandPlayer(t *testing.T) {
	_, err := NewCommandPlayer("   ")
	assert.ErrorIs(t, err, ErrNoCommand)

	_, err = NewCommandPlayer("definitely-not-a-real-player-binary")
	assert.Error(t, err)
}

func TestNopPlayer(t *testing.T) {
	assert.NoError(t, NopPlayer{}.Play(context.Background(), "x.wav"))
}
