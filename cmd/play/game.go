package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/stemsi/aptitude-quiz/internal/model"
	"github.com/stemsi/aptitude-quiz/internal/quiz"
)

const (
	keyInterrupt = 3 // Ctrl-C in raw mode
	clearScreen  = "\x1b[H\x1b[2J"
)

// game plays sessions on a terminal. It owns its session; only the run
// goroutine touches it.
type game struct {
	ctrl  *quiz.Controller
	src   quiz.Source
	clock quiz.Clock
	mode  model.Mode
	topic string

	out io.Writer
	// nl is "\r\n" while the terminal is in raw mode.
	nl string
	// live redraws the screen on every tick.
	live bool

	sess *model.Session
}

// run plays until the player quits. keys delivers lower-cased key presses
// and is closed on end of input; ticks paces the countdown.
func (g *game) run(keys <-chan byte, ticks <-chan struct{}) error {
	g.sess = model.NewSession(g.clock.Now())
	for {
		if err := g.ctrl.ChooseMode(g.sess, g.mode); err != nil {
			return err
		}
		if err := g.ctrl.Start(g.sess, g.src, g.topic); err != nil {
			return err
		}

		quit, err := g.play(keys, ticks)
		if err != nil || quit {
			return err
		}
		if !g.again(keys) {
			return nil
		}
		if err := g.ctrl.Restart(g.sess); err != nil {
			return err
		}
	}
}

func (g *game) play(keys <-chan byte, ticks <-chan struct{}) (bool, error) {
	g.renderQuestion()
	for {
		select {
		case <-ticks:
			if g.ctrl.Tick(g.sess) {
				g.println("Time's up!")
				g.renderResult()
				return false, nil
			}
			if g.live {
				g.renderQuestion()
			}

		case k, ok := <-keys:
			if !ok || k == 'q' || k == keyInterrupt {
				return true, nil
			}

			var err error
			switch {
			case k >= 'a' && k <= 'd':
				q, _ := g.ctrl.Current(g.sess)
				err = g.ctrl.Submit(g.sess, q.Options[k-'a'])
			case k == 's':
				err = g.ctrl.Skip(g.sess)
			default:
				continue
			}
			if err != nil && !errors.Is(err, quiz.ErrSessionFinished) {
				return false, err
			}

			if g.sess.Stage == model.StageResult {
				g.renderResult()
				return false, nil
			}
			g.renderQuestion()
		}
	}
}

// again asks whether to play another round.
func (g *game) again(keys <-chan byte) bool {
	g.println("")
	g.println("[r] restart   [q] quit")
	for k := range keys {
		switch k {
		case 'r':
			return true
		case 'q', keyInterrupt:
			return false
		}
	}
	return false
}

func (g *game) renderQuestion() {
	v := g.ctrl.View(g.sess)
	if v.Current == nil {
		return
	}
	q := v.Current

	if g.live {
		fmt.Fprint(g.out, clearScreen)
	}
	g.println(fmt.Sprintf("%s · %s", v.Topic, v.Mode))
	g.println(fmt.Sprintf("Question %d/%d   Time left %s   %s", q.Number, q.Total, v.Clock, bar(v.Progress, 20)))
	g.println(fmt.Sprintf("Correct %d   Wrong %d   Skipped %d", v.Score, v.Wrong, v.Skipped))
	g.println("")
	g.println(fmt.Sprintf("[%s] %s", q.Topic, q.Question))
	for i, opt := range q.Options {
		g.println(fmt.Sprintf("  %c) %s", 'A'+i, opt))
	}
	g.println("")
	g.println("[a-d] answer   [s] skip   [q] quit")
}

func (g *game) renderResult() {
	v := g.ctrl.View(g.sess)
	if v.Result == nil {
		return
	}
	r := v.Result

	if g.live {
		fmt.Fprint(g.out, clearScreen)
	}
	g.println("Quiz complete")
	g.println("")
	g.println(fmt.Sprintf("Correct    %d", r.Correct))
	g.println(fmt.Sprintf("Wrong      %d", r.Wrong))
	g.println(fmt.Sprintf("Skipped    %d", r.Skipped))
	g.println(fmt.Sprintf("Accuracy   %.1f%%", r.Accuracy))
	g.println(fmt.Sprintf("Time       %.0fs", r.ElapsedSeconds))
	g.println("")
	g.println(fmt.Sprintf("Predicted score %d (%s)", r.PredictedScore, r.Tier))
	g.println(fmt.Sprintf("%d %s %d", quiz.MinPredictedScore, gauge(r.PredictedScore), quiz.MaxPredictedScore))
}

func (g *game) println(s string) {
	fmt.Fprint(g.out, s, g.nl)
}

// bar draws a fill fraction in [0,1] as width cells.
func bar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// gauge marks the predicted score on a one-cell-per-band scale.
func gauge(predicted int) string {
	var b strings.Builder
	for _, band := range quiz.GaugeBands {
		if band == quiz.BandFor(predicted) {
			b.WriteString("[*]")
		} else {
			b.WriteString("[ ]")
		}
	}
	return b.String()
}
