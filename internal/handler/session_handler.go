package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/exam-countdown/internal/catalog"
	"github.com/stemsi/exam-countdown/internal/countdown"
	"github.com/stemsi/exam-countdown/internal/model"
	"github.com/stemsi/exam-countdown/internal/response"
	"github.com/stemsi/exam-countdown/internal/service"
	"github.com/stemsi/exam-countdown/internal/validator"
)

const (
	defaultEventsPerPage = 20
	maxEventsPerPage     = 100
	streamBuffer         = 16
)

// SessionHandler exposes the active countdown session.
type SessionHandler struct {
	sessionService *service.SessionService
	log            zerolog.Logger
}

func NewSessionHandler(sessionService *service.SessionService, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "session_handler").Logger(),
	}
}

// Start godoc
// POST /api/v1/session
// Starts a countdown, replacing any session already running.
func (h *SessionHandler) Start(c *gin.Context) {
	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.sessionService.Start(c.Request.Context(), req)
	if err != nil {
		h.failStart(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": view})
}

func (h *SessionHandler) failStart(c *gin.Context, err error) {
	var invalid *countdown.InvalidScheduleError
	switch {
	case errors.As(err, &invalid):
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrInvalidSchedule,
			map[string]string{invalid.Field: invalid.Reason})
	case errors.Is(err, catalog.ErrUnknownBoard):
		response.Fail(c, http.StatusNotFound, response.ErrUnknownBoard)
	case errors.Is(err, catalog.ErrUnknownSubject):
		response.Fail(c, http.StatusNotFound, response.ErrUnknownSubject)
	default:
		h.log.Error().Err(err).Msg("Start session failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// Get godoc
// GET /api/v1/session
func (h *SessionHandler) Get(c *gin.Context) {
	view, err := h.sessionService.Current()
	if errors.Is(err, service.ErrNoActiveSession) {
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// Stop godoc
// DELETE /api/v1/session
func (h *SessionHandler) Stop(c *gin.Context) {
	if err := h.sessionService.Stop(); err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "countdown stopped"})
}

// Events godoc
// GET /api/v1/session/events?page=1&per_page=20
// Lists fired countdown events, oldest first.
func (h *SessionHandler) Events(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultEventsPerPage)))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxEventsPerPage {
		perPage = defaultEventsPerPage
	}

	events := h.sessionService.Events()
	total := len(events)

	from := (page - 1) * perPage
	if from > total {
		from = total
	}
	to := from + perPage
	if to > total {
		to = total
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"events": events[from:to]}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// Stream godoc
// GET /api/v1/session/stream
// Streams countdown frames via SSE. The latest frame is sent on connect.
func (h *SessionHandler) Stream(c *gin.Context) {
	reqCtx := c.Request.Context()

	frames, unsubscribe := h.sessionService.Subscribe(streamBuffer)
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	h.log.Debug().Str("client_ip", c.ClientIP()).Msg("Display connected to countdown SSE")

	if view, err := h.sessionService.Current(); err == nil && view.Frame != nil {
		h.writeFrame(c, *view.Frame)
	} else {
		h.writeEvent(c, "idle", []byte("{}"))
	}

	for {
		select {
		case <-reqCtx.Done():
			h.log.Debug().Msg("Display disconnected from countdown SSE")
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			h.writeFrame(c, frame)
		}
	}
}

func (h *SessionHandler) writeFrame(c *gin.Context, frame model.Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.log.Error().Err(err).Msg("Marshal frame")
		return
	}
	h.writeEvent(c, "tick", data)
}

func (h *SessionHandler) writeEvent(c *gin.Context, event string, data []byte) {
	c.Writer.Write([]byte("event: " + event + "\n"))
	c.Writer.Write([]byte("data: "))
	c.Writer.Write(data)
	c.Writer.Write([]byte("\n\n"))
	c.Writer.Flush()
}
