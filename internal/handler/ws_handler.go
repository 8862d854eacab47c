package handler

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/aptitude-quiz/internal/middleware"
	"github.com/stemsi/aptitude-quiz/internal/model"
	"github.com/stemsi/aptitude-quiz/internal/quiz"
	"github.com/stemsi/aptitude-quiz/internal/response"
	"github.com/stemsi/aptitude-quiz/internal/service"
	ws "github.com/stemsi/aptitude-quiz/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow list permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the countdown for one session and accepts answers over
// the same connection.
type WSHandler struct {
	quizService  *service.QuizService
	log          zerolog.Logger
	upgrader     websocket.Upgrader
	tickInterval time.Duration
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(quizService *service.QuizService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		quizService:  quizService,
		log:          log.With().Str("component", "ws_handler").Logger(),
		upgrader:     buildUpgrader(allowedOrigins),
		tickInterval: quiz.DefaultTickInterval,
	}
}

// QuizStream godoc
// WS /ws/v1/quiz/stream?token=
// Sends a tick every second while the quiz runs and a finished event once
// the session reaches Result, then closes.
func (h *WSHandler) QuizStream(c *gin.Context) {
	id, ok := middleware.SessionID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTicketRequired)
		return
	}

	// Reject unknown sessions before upgrading so the client sees a
	// normal HTTP error.
	view, err := h.quizService.View(c.Request.Context(), id)
	if err != nil {
		status, code := errorStatus(err)
		response.Fail(c, status, code)
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.Wrap(raw)

	s := &stream{
		h:    h,
		conn: conn,
		id:   id,
		log:  h.log.With().Str("session_id", id.String()).Logger(),
	}
	s.run(view)
}

// stream is one live connection.
type stream struct {
	h        *WSHandler
	conn     *ws.Conn
	id       uuid.UUID
	log      zerolog.Logger
	finished sync.Once
	done     atomic.Bool
}

func (s *stream) run(view model.SessionView) {
	s.log.Info().Msg("Stream connected")

	_ = s.conn.WriteTyped(ws.StateResponse{Event: ws.EventState, Session: view})
	if view.Stage == model.StageResult {
		s.finish(view)
		s.conn.CloseNormal("finished")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		s.readLoop(ctx)
	}()

	err := quiz.RunTicker(ctx, s.h.tickInterval, func() bool {
		return s.tick(ctx)
	})
	cancel()

	if err == nil || s.done.Load() {
		s.conn.CloseNormal("finished")
	} else {
		_ = s.conn.Close()
	}
	wg.Wait()
	s.log.Info().Msg("Stream closed")
}

// tick reports true once the stream should stop.
func (s *stream) tick(ctx context.Context) bool {
	view, done, err := s.h.quizService.Tick(ctx, s.id)
	if err != nil {
		_, code := errorStatus(err)
		_ = s.conn.WriteError(string(code), response.GetMessage(code))
		return true
	}
	if done {
		s.finish(view)
		return true
	}
	if err := s.conn.WriteTyped(ws.TickResponse{
		Event:            ws.EventTick,
		Stage:            view.Stage,
		RemainingSeconds: view.RemainingSeconds,
		Clock:            view.Clock,
	}); err != nil {
		s.log.Debug().Err(err).Msg("Tick write failed")
		return true
	}
	return false
}

func (s *stream) readLoop(ctx context.Context) {
	for {
		req, err := s.conn.ReadRequest()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && !s.done.Load() {
				s.log.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		var (
			view   model.SessionView
			actErr error
		)
		switch req.Action {
		case ws.ActionPing:
			_ = s.conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
			continue
		case ws.ActionSubmit:
			view, actErr = s.h.quizService.Submit(ctx, s.id, req.Option)
		case ws.ActionSkip:
			view, actErr = s.h.quizService.Skip(ctx, s.id)
		default:
			s.log.Warn().Str("action", string(req.Action)).Msg("Unknown action")
			_ = s.conn.WriteError(string(response.ErrInvalidPayload), "unknown action: "+string(req.Action))
			continue
		}

		if actErr != nil {
			_, code := errorStatus(actErr)
			_ = s.conn.WriteError(string(code), response.GetMessage(code))
		} else {
			_ = s.conn.WriteTyped(ws.StateResponse{Event: ws.EventState, Session: view})
		}

		if view.Stage == model.StageResult {
			s.finish(view)
			return
		}
	}
}

// finish sends the result exactly once.
func (s *stream) finish(view model.SessionView) {
	s.finished.Do(func() {
		s.done.Store(true)
		if view.Result == nil {
			return
		}
		_ = s.conn.WriteTyped(ws.FinishedResponse{Event: ws.EventFinished, Result: *view.Result})
		s.log.Info().Int("predicted_score", view.Result.PredictedScore).Msg("Stream finished")
	})
}

