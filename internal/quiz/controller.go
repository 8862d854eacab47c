package quiz

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/stemsi/aptitude-quiz/internal/model"
)

const (
	// SessionLength is the number of questions a session keeps.
	SessionLength = 20
	// VariantsPerSession is how many variants are mixed into the candidates.
	VariantsPerSession = 10
)

var (
	ErrModeRequired      = errors.New("a play mode must be chosen before starting")
	ErrUnknownMode       = errors.New("unknown play mode")
	ErrNoQuestions       = errors.New("no questions available for the selected topic")
	ErrInvalidTransition = errors.New("action not allowed in the current stage")
	ErrSessionFinished   = errors.New("quiz session is already finished")
)

// Source yields the candidate questions for a topic.
type Source interface {
	ByTopic(topic string) ([]model.Question, error)
}

// Controller drives the Setup → Quiz → Result state machine. It holds no
// session state of its own; every call receives the session it acts on.
// A Controller is not safe for concurrent use because it shares rng.
type Controller struct {
	rng   *rand.Rand
	clock Clock
}

// NewController creates a Controller. A nil clock uses the wall clock.
func NewController(rng *rand.Rand, clock Clock) *Controller {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Controller{rng: rng, clock: clock}
}

// ChooseMode records the play mode while the session is in Setup.
func (c *Controller) ChooseMode(s *model.Session, mode model.Mode) error {
	if s.Stage != model.StageSetup {
		return ErrInvalidTransition
	}
	if !mode.Valid() {
		return ErrUnknownMode
	}
	s.Mode = mode
	return nil
}

// Start builds the question list and moves the session into Quiz.
func (c *Controller) Start(s *model.Session, src Source, topic string) error {
	if s.Stage != model.StageSetup {
		return ErrInvalidTransition
	}
	if !s.Mode.Valid() {
		return ErrModeRequired
	}

	filtered, err := src.ByTopic(topic)
	if err != nil {
		return err
	}
	if len(filtered) == 0 {
		return ErrNoQuestions
	}

	candidates := make([]model.Question, 0, len(filtered)+VariantsPerSession)
	candidates = append(candidates, filtered...)
	candidates = append(candidates, GenerateVariants(c.rng, filtered, VariantsPerSession)...)
	c.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > SessionLength {
		candidates = candidates[:SessionLength]
	}

	now := c.clock.Now()
	s.Stage = model.StageQuiz
	s.Topic = topic
	s.Questions = candidates
	s.CurrentIndex = 0
	s.Score = 0
	s.Wrong = 0
	s.Skipped = 0
	s.TimeLimitSeconds = s.Mode.TimeLimitSeconds()
	s.StartedAt = &now
	s.FinishedAt = nil
	return nil
}

// Submit grades option against the current question and advances. An empty
// option, or any option on an unanswerable question, counts as wrong.
// If the time ran out before the call, the session moves to Result and the
// answer is not counted.
func (c *Controller) Submit(s *model.Session, option string) error {
	if err := c.guardQuiz(s); err != nil {
		return err
	}
	if q := s.Questions[s.CurrentIndex]; q.Answerable() && option == q.Answer {
		s.Score++
	} else {
		s.Wrong++
	}
	s.CurrentIndex++
	c.Tick(s)
	return nil
}

// Skip leaves the current question unanswered and advances.
func (c *Controller) Skip(s *model.Session) error {
	if err := c.guardQuiz(s); err != nil {
		return err
	}
	s.Skipped++
	s.CurrentIndex++
	c.Tick(s)
	return nil
}

func (c *Controller) guardQuiz(s *model.Session) error {
	switch s.Stage {
	case model.StageQuiz:
	case model.StageResult:
		return ErrSessionFinished
	default:
		return ErrInvalidTransition
	}
	if c.Tick(s) {
		return ErrSessionFinished
	}
	return nil
}

// Tick moves a Quiz session to Result once every question has been visited
// or the displayed clock reaches zero. It reports whether the transition
// happened.
func (c *Controller) Tick(s *model.Session) bool {
	if s.Stage != model.StageQuiz {
		return false
	}
	now := c.clock.Now()
	if s.CurrentIndex < len(s.Questions) && c.remaining(s, now) > 0 {
		return false
	}
	s.Stage = model.StageResult
	s.FinishedAt = &now
	return true
}

// Restart discards the attempt and returns the session to an empty Setup.
func (c *Controller) Restart(s *model.Session) error {
	if s.Stage != model.StageResult {
		return ErrInvalidTransition
	}
	*s = model.Session{
		ID:        s.ID,
		Stage:     model.StageSetup,
		CreatedAt: s.CreatedAt,
	}
	return nil
}

// Remaining returns the whole seconds left on the clock, floored and never
// negative. Outside Quiz it is 0.
func (c *Controller) Remaining(s *model.Session) int {
	if s.Stage != model.StageQuiz {
		return 0
	}
	return c.remaining(s, c.clock.Now())
}

func (c *Controller) remaining(s *model.Session, now time.Time) int {
	left := float64(s.TimeLimitSeconds) - c.elapsed(s, now).Seconds()
	if left <= 0 {
		return 0
	}
	return int(math.Floor(left))
}

// Current returns the question under the cursor while the session is in Quiz.
func (c *Controller) Current(s *model.Session) (model.Question, bool) {
	if s.Stage != model.StageQuiz || s.CurrentIndex >= len(s.Questions) {
		return model.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Outcome scores a finished session using the elapsed time frozen at the
// Result transition.
func (c *Controller) Outcome(s *model.Session) (model.Result, error) {
	if s.Stage != model.StageResult || s.StartedAt == nil || s.FinishedAt == nil {
		return model.Result{}, ErrInvalidTransition
	}
	res := Score(s.Score, s.Wrong, s.FinishedAt.Sub(*s.StartedAt))
	res.Skipped = s.Skipped
	return res, nil
}

// View projects the session for the player.
func (c *Controller) View(s *model.Session) model.SessionView {
	v := model.SessionView{
		ID:               s.ID,
		Stage:            s.Stage,
		Mode:             s.Mode,
		Topic:            s.Topic,
		TimeLimitSeconds: s.TimeLimitSeconds,
		Score:            s.Score,
		Wrong:            s.Wrong,
		Skipped:          s.Skipped,
	}

	switch s.Stage {
	case model.StageQuiz:
		remaining := c.Remaining(s)
		v.RemainingSeconds = remaining
		v.Clock = FormatClock(remaining)
		if s.TimeLimitSeconds > 0 {
			v.Progress = float64(remaining) / float64(s.TimeLimitSeconds)
		}
		if q, ok := c.Current(s); ok {
			v.Current = &model.QuestionView{
				Number:   s.CurrentIndex + 1,
				Total:    len(s.Questions),
				Topic:    q.Topic,
				Question: q.Question,
				Options:  q.Options,
			}
		}
	case model.StageResult:
		if res, err := c.Outcome(s); err == nil {
			v.Result = &res
		}
	}
	return v
}

func (c *Controller) elapsed(s *model.Session, now time.Time) time.Duration {
	if s.StartedAt == nil {
		return 0
	}
	return now.Sub(*s.StartedAt)
}
