package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/aptitude-quiz/internal/bank"
	"github.com/stemsi/aptitude-quiz/internal/model"
	"github.com/stemsi/aptitude-quiz/internal/quiz"
	"github.com/stemsi/aptitude-quiz/internal/repository"
)

// QuizService runs quiz sessions by ID on top of the session repository.
type QuizService struct {
	// mu serializes every session operation; it also guards the
	// controller's shared random source.
	mu    sync.Mutex
	pool  *bank.Pool
	repo  repository.SessionRepository
	ctrl  *quiz.Controller
	clock quiz.Clock
	log   zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	pool *bank.Pool,
	repo repository.SessionRepository,
	ctrl *quiz.Controller,
	clock quiz.Clock,
	log zerolog.Logger,
) *QuizService {
	if clock == nil {
		clock = quiz.SystemClock{}
	}
	return &QuizService{
		pool:  pool,
		repo:  repo,
		ctrl:  ctrl,
		clock: clock,
		log:   log.With().Str("component", "quiz_service").Logger(),
	}
}

// Catalog lists topics and modes for the setup screen.
func (s *QuizService) Catalog() model.Catalog {
	modes := make([]model.ModeInfo, 0, len(model.Modes))
	for _, m := range model.Modes {
		modes = append(modes, model.ModeInfo{Name: m, TimeLimitSeconds: m.TimeLimitSeconds()})
	}
	return model.Catalog{Topics: s.pool.Topics(), Modes: modes}
}

// Create opens a new session in the Setup stage.
func (s *QuizService) Create(ctx context.Context) (model.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := model.NewSession(s.clock.Now())
	if err := s.repo.Save(ctx, sess); err != nil {
		return model.SessionView{}, fmt.Errorf("save session: %w", err)
	}
	s.log.Debug().Str("session_id", sess.ID.String()).Msg("Session created")
	return s.ctrl.View(sess), nil
}

// View returns the current state, applying any pending timeout first.
func (s *QuizService) View(ctx context.Context, id uuid.UUID) (model.SessionView, error) {
	return s.mutate(ctx, id, func(*model.Session) error { return nil })
}

// Tick re-evaluates the timeout and reports whether the session is in Result.
func (s *QuizService) Tick(ctx context.Context, id uuid.UUID) (model.SessionView, bool, error) {
	v, err := s.View(ctx, id)
	if err != nil {
		return v, false, err
	}
	return v, v.Stage == model.StageResult, nil
}

// ChooseMode records the play mode.
func (s *QuizService) ChooseMode(ctx context.Context, id uuid.UUID, mode model.Mode) (model.SessionView, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		return s.ctrl.ChooseMode(sess, mode)
	})
}

// Start begins the quiz for topic. A non-empty mode is chosen first.
func (s *QuizService) Start(ctx context.Context, id uuid.UUID, topic string, mode model.Mode) (model.SessionView, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		if mode != "" {
			if err := s.ctrl.ChooseMode(sess, mode); err != nil {
				return err
			}
		}
		if err := s.ctrl.Start(sess, s.pool, topic); err != nil {
			return err
		}
		s.log.Info().
			Str("session_id", sess.ID.String()).
			Str("topic", topic).
			Str("mode", string(sess.Mode)).
			Int("questions", len(sess.Questions)).
			Msg("Quiz started")
		return nil
	})
}

// Submit answers the current question.
func (s *QuizService) Submit(ctx context.Context, id uuid.UUID, option string) (model.SessionView, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		return s.ctrl.Submit(sess, option)
	})
}

// Skip passes on the current question.
func (s *QuizService) Skip(ctx context.Context, id uuid.UUID) (model.SessionView, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		return s.ctrl.Skip(sess)
	})
}

// Result returns the scored outcome once the session is in Result.
func (s *QuizService) Result(ctx context.Context, id uuid.UUID) (model.Result, error) {
	v, err := s.View(ctx, id)
	if err != nil {
		return model.Result{}, err
	}
	if v.Result == nil {
		return model.Result{}, quiz.ErrInvalidTransition
	}
	return *v.Result, nil
}

// Restart discards the attempt and returns the session to Setup.
func (s *QuizService) Restart(ctx context.Context, id uuid.UUID) (model.SessionView, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		return s.ctrl.Restart(sess)
	})
}

// End discards the session. Its ticket stops working afterwards.
func (s *QuizService) End(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.log.Debug().Str("session_id", id.String()).Msg("Session ended")
	return nil
}

// mutate loads the session, settles any timeout, applies fn and saves the
// result. The session is saved even when fn fails, because a guard may
// have moved it to Result.
func (s *QuizService) mutate(ctx context.Context, id uuid.UUID, fn func(*model.Session) error) (model.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.SessionView{}, err
	}

	before := sess.Stage
	s.ctrl.Tick(sess)
	opErr := fn(sess)

	if err := s.repo.Save(ctx, sess); err != nil {
		return model.SessionView{}, fmt.Errorf("save session: %w", err)
	}

	view := s.ctrl.View(sess)
	if before == model.StageQuiz && sess.Stage == model.StageResult && view.Result != nil {
		s.log.Info().
			Str("session_id", sess.ID.String()).
			Int("correct", view.Result.Correct).
			Int("wrong", view.Result.Wrong).
			Int("skipped", view.Result.Skipped).
			Int("predicted_score", view.Result.PredictedScore).
			Msg("Quiz finished")
	}
	return view, opErr
}

// IsClientError reports whether err stems from an invalid player action
// rather than a server fault.
func IsClientError(err error) bool {
	return errors.Is(err, quiz.ErrModeRequired) ||
		errors.Is(err, quiz.ErrUnknownMode) ||
		errors.Is(err, quiz.ErrNoQuestions) ||
		errors.Is(err, quiz.ErrInvalidTransition) ||
		errors.Is(err, quiz.ErrSessionFinished) ||
		errors.Is(err, bank.ErrUnknownTopic) ||
		errors.Is(err, repository.ErrSessionNotFound)
}
