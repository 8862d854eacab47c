package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stemsi/aptitude-quiz/internal/bank"
	"github.com/stemsi/aptitude-quiz/internal/model"
	"github.com/stemsi/aptitude-quiz/internal/quiz"
)

// steppingClock advances by step on every reading.
type steppingClock struct {
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func testPool(n int) *bank.Pool {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			Topic:    "Logical Reasoning",
			Question: fmt.Sprintf("Question %d", i),
			Options:  [4]string{"w", "x", "y", "z"},
			Answer:   "x",
		}
	}
	return bank.NewPool(qs)
}

func feed(keys string) <-chan byte {
	ch := make(chan byte, len(keys))
	for i := 0; i < len(keys); i++ {
		ch <- keys[i]
	}
	close(ch)
	return ch
}

func newTestGame(clock quiz.Clock, out *bytes.Buffer) *game {
	return &game{
		ctrl:  quiz.NewController(quiz.NewRand(7), clock),
		src:   testPool(30),
		clock: clock,
		mode:  model.ProMode,
		topic: model.TopicMixed,
		out:   out,
		nl:    "\n",
	}
}

func TestGame_SkipEverything(t *testing.T) {
	var out bytes.Buffer
	clock := &steppingClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	g := newTestGame(clock, &out)

	if err := g.run(feed(strings.Repeat("s", quiz.SessionLength)+"q"), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	if g.sess.Stage != model.StageResult {
		t.Fatalf("stage = %s, want RESULT", g.sess.Stage)
	}
	if g.sess.Skipped != quiz.SessionLength {
		t.Errorf("skipped = %d, want %d", g.sess.Skipped, quiz.SessionLength)
	}
	if !strings.Contains(out.String(), "Predicted score 80 (Beginner)") {
		t.Errorf("result screen missing predicted score:\n%s", out.String())
	}
}

func TestGame_IgnoresUnknownKeys(t *testing.T) {
	var out bytes.Buffer
	clock := &steppingClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	g := newTestGame(clock, &out)

	if err := g.run(feed("xz9b"), nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := g.sess.Score + g.sess.Wrong; got != 1 {
		t.Errorf("answered = %d, want 1", got)
	}
	if g.sess.Stage != model.StageQuiz {
		t.Errorf("stage = %s, want QUIZ after input ran out", g.sess.Stage)
	}
}

func TestGame_AnswerAfterTimeLimit(t *testing.T) {
	var out bytes.Buffer
	// Every clock reading moves a minute forward, so the five-minute limit
	// runs out within a few operations.
	clock := &steppingClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: time.Minute}
	g := newTestGame(clock, &out)

	if err := g.run(feed("aaaaaaq"), nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if g.sess.Stage != model.StageResult {
		t.Fatalf("stage = %s, want RESULT", g.sess.Stage)
	}
	if answered := g.sess.Score + g.sess.Wrong; answered >= 6 {
		t.Errorf("answered = %d, expected the clock to cut the run short", answered)
	}
	if !strings.Contains(out.String(), "Quiz complete") {
		t.Errorf("missing result screen:\n%s", out.String())
	}
}

func TestGame_Restart(t *testing.T) {
	var out bytes.Buffer
	clock := &steppingClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	g := newTestGame(clock, &out)

	skips := strings.Repeat("s", quiz.SessionLength)
	if err := g.run(feed(skips+"r"+"a"+"q"), nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if g.sess.Stage != model.StageQuiz {
		t.Fatalf("stage = %s, want QUIZ in the second round", g.sess.Stage)
	}
	if g.sess.Skipped != 0 || g.sess.Score+g.sess.Wrong != 1 {
		t.Errorf("counters not reset: %+v", g.sess)
	}
}

func TestGame_UnknownTopic(t *testing.T) {
	var out bytes.Buffer
	clock := &steppingClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	g := newTestGame(clock, &out)
	g.topic = "Astronomy"

	if err := g.run(feed("q"), nil); err == nil {
		t.Fatal("expected error for unknown topic")
	}
}

func TestGauge(t *testing.T) {
	if got := gauge(135); got != "[ ][ ][ ][ ][*]" {
		t.Errorf("gauge(135) = %q", got)
	}
	if got := gauge(70); got != "[*][ ][ ][ ][ ]" {
		t.Errorf("gauge(70) = %q", got)
	}
}

func TestBar(t *testing.T) {
	if got := bar(0.5, 4); got != "[##..]" {
		t.Errorf("bar(0.5, 4) = %q", got)
	}
	if got := bar(1.5, 2); got != "[##]" {
		t.Errorf("bar(1.5, 2) = %q", got)
	}
}
