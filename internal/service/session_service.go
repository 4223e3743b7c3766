package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-countdown/internal/alert"
	"github.com/stemsi/exam-countdown/internal/broadcast"
	"github.com/stemsi/exam-countdown/internal/catalog"
	"github.com/stemsi/exam-countdown/internal/countdown"
	"github.com/stemsi/exam-countdown/internal/model"
)

// ErrNoActiveSession is returned when no countdown is running.
var ErrNoActiveSession = errors.New("no active countdown session")

const defaultEventLogSize = 100

// SessionConfig contains runtime options for SessionService.
type SessionConfig struct {
	TickInterval time.Duration
	Clock        countdown.Clock
	// Location is the wall clock exam dates are read in. Defaults to time.Local.
	Location     *time.Location
	EventLogSize int
}

// SessionService owns the single active countdown session.
type SessionService struct {
	catalog *catalog.Catalog
	hub     *broadcast.Hub
	alerts  *alert.Dispatcher
	config  SessionConfig
	log     zerolog.Logger

	// mu serializes session replacement; the driver is only touched under it.
	mu     sync.Mutex
	driver *countdown.Driver

	stateMu sync.RWMutex
	session *model.Session
	frame   *model.Frame
	events  []model.LoggedEvent
}

// NewSessionService creates a SessionService.
func NewSessionService(cat *catalog.Catalog, hub *broadcast.Hub, alerts *alert.Dispatcher, config SessionConfig, log zerolog.Logger) *SessionService {
	if config.Clock == nil {
		config.Clock = countdown.SystemClock
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.EventLogSize <= 0 {
		config.EventLogSize = defaultEventLogSize
	}
	if config.TickInterval <= 0 {
		config.TickInterval = countdown.DefaultTickInterval
	}
	return &SessionService{
		catalog: cat,
		hub:     hub,
		alerts:  alerts,
		config:  config,
		log:     log.With().Str("component", "session_service").Logger(),
	}
}

// Start begins a countdown for req, replacing any running session. The old
// driver is stopped before the new schedule is installed, so a tick from the
// superseded session can never reach the new one.
func (s *SessionService) Start(ctx context.Context, req model.StartSessionRequest) (*model.SessionView, error) {
	info, schedule, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.driver != nil {
		s.driver.Stop()
		s.driver = nil
	}

	session := &model.Session{
		ID:        uuid.New(),
		Exam:      info,
		StartsAt:  schedule.StartInstant(),
		EndsAt:    schedule.EndInstant(),
		CreatedAt: s.config.Clock.Now(),
	}

	s.stateMu.Lock()
	s.session = session
	s.frame = nil
	s.stateMu.Unlock()

	driver := countdown.NewDriver(schedule, s.sinkFor(session.ID), countdown.DriverConfig{
		TickInterval: s.config.TickInterval,
		Clock:        s.config.Clock,
	})
	s.driver = driver
	driver.Start()

	s.log.Info().
		Str("session_id", session.ID.String()).
		Str("board", info.Board).
		Str("subject", info.Subject.Code).
		Time("starts_at", session.StartsAt).
		Time("ends_at", session.EndsAt).
		Dur("duration", driver.Schedule().Duration()).
		Msg("Countdown session started")

	return s.Current()
}

// Current returns the active session and its latest frame.
func (s *SessionService) Current() (*model.SessionView, error) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	if s.session == nil {
		return nil, ErrNoActiveSession
	}
	view := &model.SessionView{Session: *s.session}
	if s.frame != nil {
		frame := *s.frame
		view.Frame = &frame
	}
	return view, nil
}

// Stop ends the active session.
func (s *SessionService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.driver == nil {
		return ErrNoActiveSession
	}
	s.driver.Stop()
	s.driver = nil

	s.stateMu.Lock()
	id := s.session.ID
	s.session = nil
	s.frame = nil
	s.stateMu.Unlock()

	s.log.Info().Str("session_id", id.String()).Msg("Countdown session stopped")
	return nil
}

// Events returns the event log, oldest first.
func (s *SessionService) Events() []model.LoggedEvent {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return append([]model.LoggedEvent{}, s.events...)
}

// Subscribe registers a display for live frames.
func (s *SessionService) Subscribe(buffer int) (<-chan model.Frame, func()) {
	return s.hub.Subscribe(buffer)
}

// Displays returns the number of connected live displays.
func (s *SessionService) Displays() int {
	return s.hub.Subscribers()
}

// Shutdown stops the active session, closes all displays and waits for
// pending alerts.
func (s *SessionService) Shutdown() {
	if err := s.Stop(); err != nil && !errors.Is(err, ErrNoActiveSession) {
		s.log.Error().Err(err).Msg("Stop session on shutdown")
	}
	s.hub.Close()
	s.alerts.Wait()
}

func (s *SessionService) sinkFor(id uuid.UUID) countdown.Sink {
	return countdown.SinkFunc(func(tick countdown.Tick) {
		s.publish(id, tick)
	})
}

func (s *SessionService) publish(id uuid.UUID, tick countdown.Tick) {
	frame := model.NewFrame(id, tick)

	s.stateMu.Lock()
	if s.session == nil || s.session.ID != id {
		s.stateMu.Unlock()
		s.log.Warn().Str("session_id", id.String()).Msg("Dropped tick from superseded session")
		return
	}
	s.frame = &frame
	for _, event := range tick.Events {
		s.events = append(s.events, model.LoggedEvent{SessionID: id, Kind: event.Kind, At: event.At})
	}
	if overflow := len(s.events) - s.config.EventLogSize; overflow > 0 {
		s.events = append([]model.LoggedEvent(nil), s.events[overflow:]...)
	}
	s.stateMu.Unlock()

	s.hub.Broadcast(frame)

	for _, event := range tick.Events {
		s.log.Info().
			Str("session_id", id.String()).
			Str("kind", string(event.Kind)).
			Time("at", event.At).
			Msg("Countdown event")
		s.alerts.Dispatch(event)
	}
}

func (s *SessionService) resolve(req model.StartSessionRequest) (model.ExamInfo, countdown.ExamSchedule, error) {
	board, err := s.catalog.Board(req.Board)
	if err != nil {
		return model.ExamInfo{}, countdown.ExamSchedule{}, err
	}

	subject := model.SubjectRef{
		Name: strings.TrimSpace(req.Subject.Name),
		Code: strings.TrimSpace(req.Subject.Code),
	}
	if subject.Name == "" {
		known, err := s.catalog.Subject(board.Name, subject.Code)
		if err != nil {
			return model.ExamInfo{}, countdown.ExamSchedule{}, err
		}
		subject = model.SubjectRef{Name: known.Name, Code: known.Code}
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, s.config.Location)
	if err != nil {
		return model.ExamInfo{}, countdown.ExamSchedule{}, &countdown.InvalidScheduleError{
			Field:  "date",
			Value:  req.Date,
			Reason: "expected YYYY-MM-DD",
		}
	}

	schedule, err := countdown.NewSchedule(date, req.StartTime, req.EndTime)
	if err != nil {
		return model.ExamInfo{}, countdown.ExamSchedule{}, err
	}

	venue := strings.TrimSpace(req.Venue)
	if venue == "" {
		venue = board.Venue
	}

	info := model.ExamInfo{
		Board:          board.Name,
		Subject:        subject,
		Date:           schedule.Date().Format("2006-01-02"),
		StartTime:      schedule.Start().String(),
		EndTime:        schedule.End().String(),
		TimeRange:      fmt.Sprintf("%s - %s", schedule.Start().Format12Hour(), schedule.End().Format12Hour()),
		Venue:          venue,
		Classroom:      strings.TrimSpace(req.Classroom),
		Teachers:       req.Teachers,
		AttendanceFile: req.AttendanceFile,
	}
	return info, schedule, nil
}
