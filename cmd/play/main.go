// Command play runs the quiz in a terminal against the local question banks.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stemsi/aptitude-quiz/internal/bank"
	"github.com/stemsi/aptitude-quiz/internal/config"
	"github.com/stemsi/aptitude-quiz/internal/logger"
	"github.com/stemsi/aptitude-quiz/internal/model"
	"github.com/stemsi/aptitude-quiz/internal/quiz"
	"golang.org/x/term"
)

var modeFlags = map[string]model.Mode{
	"quick": model.QuickMode,
	"pro":   model.ProMode,
}

func main() {
	cfg := config.Load()

	var (
		manifestPath string
		modeName     string
		topic        string
		seed         uint64
	)
	flag.StringVar(&manifestPath, "manifest", cfg.BankManifest, "Path to the bank manifest")
	flag.StringVar(&modeName, "mode", "quick", "Play mode: quick (2 min) or pro (5 min)")
	flag.StringVar(&topic, "topic", model.TopicMixed, "Topic to draw questions from")
	flag.Uint64Var(&seed, "seed", cfg.RandomSeed, "Random seed; 0 picks one at random")
	flag.Parse()

	// Logs go to stderr so they never interleave with the quiz screen.
	log := logger.New(os.Stderr, cfg.LogLevel, "pretty")

	mode, ok := modeFlags[strings.ToLower(modeName)]
	if !ok {
		log.Fatal().Str("mode", modeName).Msg("Mode must be quick or pro")
	}

	manifest, err := bank.LoadManifest(manifestPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read bank manifest")
	}
	pool, err := bank.Load(manifest)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load question banks")
	}
	log.Debug().Int("questions", pool.Len()).Msg("Question banks loaded")

	clock := quiz.SystemClock{}
	g := &game{
		ctrl:  quiz.NewController(quiz.NewRand(seed), clock),
		src:   pool,
		clock: clock,
		mode:  mode,
		topic: topic,
		out:   os.Stdout,
		nl:    "\n",
	}

	stdin := int(os.Stdin.Fd())
	live := term.IsTerminal(stdin) && term.IsTerminal(int(os.Stdout.Fd()))

	var (
		keys     <-chan byte
		oldState *term.State
	)
	if live {
		oldState, err = term.MakeRaw(stdin)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to switch terminal to raw mode")
		}
		g.nl = "\r\n"
		g.live = true
		keys = readKeys(os.Stdin)
	} else {
		keys = readLines(os.Stdin)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks := make(chan struct{}, 1)
	go quiz.RunTicker(ctx, quiz.DefaultTickInterval, func() bool {
		select {
		case ticks <- struct{}{}:
		default:
		}
		return false
	})

	err = g.run(keys, ticks)
	if oldState != nil {
		_ = term.Restore(stdin, oldState)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "play:", err)
		os.Exit(1)
	}
}

// readKeys forwards single key presses from a raw terminal.
func readKeys(r io.Reader) <-chan byte {
	keys := make(chan byte)
	go func() {
		defer close(keys)
		buf := make([]byte, 1)
		for {
			if _, err := r.Read(buf); err != nil {
				return
			}
			keys <- lower(buf[0])
		}
	}()
	return keys
}

// readLines forwards the first character of each non-empty input line, for
// piped input.
func readLines(r io.Reader) <-chan byte {
	keys := make(chan byte)
	go func() {
		defer close(keys)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			keys <- lower(line[0])
		}
	}()
	return keys
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}
