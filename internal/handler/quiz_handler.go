package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/aptitude-quiz/internal/bank"
	"github.com/stemsi/aptitude-quiz/internal/middleware"
	"github.com/stemsi/aptitude-quiz/internal/model"
	"github.com/stemsi/aptitude-quiz/internal/quiz"
	"github.com/stemsi/aptitude-quiz/internal/repository"
	"github.com/stemsi/aptitude-quiz/internal/response"
	"github.com/stemsi/aptitude-quiz/internal/service"
	"github.com/stemsi/aptitude-quiz/internal/validator"
)

// QuizHandler serves the player-facing quiz endpoints.
type QuizHandler struct {
	quizService   *service.QuizService
	ticketService *service.TicketService
	log           zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, ticketService *service.TicketService, log zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		quizService:   quizService,
		ticketService: ticketService,
		log:           log.With().Str("component", "quiz_handler").Logger(),
	}
}

// GetCatalog godoc
// GET /api/v1/quiz/catalog
func (h *QuizHandler) GetCatalog(c *gin.Context) {
	response.Success(c, http.StatusOK, h.quizService.Catalog())
}

// CreateSession godoc
// POST /api/v1/quiz/sessions
// Opens a Setup session and returns the ticket that drives it.
func (h *QuizHandler) CreateSession(c *gin.Context) {
	view, err := h.quizService.Create(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	ticket, expiresAt, err := h.ticketService.Issue(view.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("Issue ticket failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SetStage(c, string(view.Stage))
	response.Success(c, http.StatusCreated, gin.H{
		"session":    view,
		"ticket":     ticket,
		"expires_at": expiresAt,
	})
}

// GetSession godoc
// GET /api/v1/quiz/session
// Returns the current view. A session whose time ran out moves to Result here.
func (h *QuizHandler) GetSession(c *gin.Context) {
	id, ok := middleware.SessionID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTicketRequired)
		return
	}

	view, err := h.quizService.View(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, view)
}

// ChooseMode godoc
// PUT /api/v1/quiz/session/mode
func (h *QuizHandler) ChooseMode(c *gin.Context) {
	id, ok := middleware.SessionID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTicketRequired)
		return
	}

	var req model.ChooseModeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.quizService.ChooseMode(c.Request.Context(), id, req.Mode)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, view)
}

// StartQuiz godoc
// POST /api/v1/quiz/session/start
func (h *QuizHandler) StartQuiz(c *gin.Context) {
	id, ok := middleware.SessionID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTicketRequired)
		return
	}

	var req model.StartQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.quizService.Start(c.Request.Context(), id, req.Topic, req.Mode)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, view)
}

// SubmitAnswer godoc
// POST /api/v1/quiz/session/answer
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	id, ok := middleware.SessionID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTicketRequired)
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.quizService.Submit(c.Request.Context(), id, req.Option)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, view)
}

// SkipQuestion godoc
// POST /api/v1/quiz/session/skip
func (h *QuizHandler) SkipQuestion(c *gin.Context) {
	id, ok := middleware.SessionID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTicketRequired)
		return
	}

	view, err := h.quizService.Skip(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, view)
}

// GetResult godoc
// GET /api/v1/quiz/session/result
func (h *QuizHandler) GetResult(c *gin.Context) {
	id, ok := middleware.SessionID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTicketRequired)
		return
	}

	result, err := h.quizService.Result(c.Request.Context(), id)
	if errors.Is(err, quiz.ErrInvalidTransition) {
		response.Fail(c, http.StatusConflict, response.ErrResultNotReady)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	response.SetStage(c, string(model.StageResult))
	response.Success(c, http.StatusOK, result)
}

// RestartQuiz godoc
// POST /api/v1/quiz/session/restart
func (h *QuizHandler) RestartQuiz(c *gin.Context) {
	id, ok := middleware.SessionID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTicketRequired)
		return
	}

	view, err := h.quizService.Restart(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, view)
}

// EndSession godoc
// DELETE /api/v1/quiz/session
func (h *QuizHandler) EndSession(c *gin.Context) {
	id, ok := middleware.SessionID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTicketRequired)
		return
	}

	if err := h.quizService.End(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ended": true})
}

func (h *QuizHandler) respond(c *gin.Context, status int, view model.SessionView) {
	response.SetStage(c, string(view.Stage))
	response.Success(c, status, view)
}

func (h *QuizHandler) fail(c *gin.Context, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Quiz operation failed")
	}
	response.Fail(c, status, code)
}

// errorStatus maps service errors to an HTTP status and API error code.
func errorStatus(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		return http.StatusNotFound, response.ErrSessionExpired
	case errors.Is(err, quiz.ErrModeRequired):
		return http.StatusBadRequest, response.ErrModeRequired
	case errors.Is(err, quiz.ErrUnknownMode):
		return http.StatusBadRequest, response.ErrUnknownMode
	case errors.Is(err, bank.ErrUnknownTopic):
		return http.StatusBadRequest, response.ErrUnknownTopic
	case errors.Is(err, quiz.ErrNoQuestions):
		return http.StatusUnprocessableEntity, response.ErrNoQuestions
	case errors.Is(err, quiz.ErrSessionFinished):
		return http.StatusConflict, response.ErrQuizFinished
	case errors.Is(err, quiz.ErrInvalidTransition):
		return http.StatusConflict, response.ErrWrongStage
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}
