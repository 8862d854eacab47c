package bank

import (
	"errors"
	"fmt"

	"github.com/stemsi/aptitude-quiz/internal/model"
)

// ErrUnknownTopic is returned when a topic is neither loaded nor the mixed
// selection.
var ErrUnknownTopic = errors.New("unknown topic")

// Pool is the immutable set of questions loaded at startup.
type Pool struct {
	questions []model.Question
	topics    []string
	counts    map[string]int
}

// NewPool builds a pool from already loaded questions. Topic order follows
// first appearance.
func NewPool(questions []model.Question) *Pool {
	p := &Pool{
		questions: append([]model.Question(nil), questions...),
		counts:    make(map[string]int),
	}
	for _, q := range p.questions {
		if _, seen := p.counts[q.Topic]; !seen {
			p.topics = append(p.topics, q.Topic)
		}
		p.counts[q.Topic]++
	}
	return p
}

// Load reads every manifest source in order and concatenates the results.
// Any source failure aborts the load.
func Load(m *Manifest) (*Pool, error) {
	var all []model.Question
	for _, src := range m.Sources {
		qs, err := LoadFile(src.Path, src.Topic)
		if err != nil {
			return nil, fmt.Errorf("load topic %q: %w", src.Topic, err)
		}
		all = append(all, qs...)
	}
	return NewPool(all), nil
}

// Len returns the number of questions in the pool.
func (p *Pool) Len() int { return len(p.questions) }

// All returns a copy of every question.
func (p *Pool) All() []model.Question {
	return append([]model.Question(nil), p.questions...)
}

// ByTopic returns a copy of the questions for topic. model.TopicMixed
// selects the whole pool.
func (p *Pool) ByTopic(topic string) ([]model.Question, error) {
	if topic == model.TopicMixed {
		return p.All(), nil
	}
	if _, ok := p.counts[topic]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}
	out := make([]model.Question, 0, p.counts[topic])
	for _, q := range p.questions {
		if q.Topic == topic {
			out = append(out, q)
		}
	}
	return out, nil
}

// Topics lists the mixed selection followed by each loaded topic.
func (p *Pool) Topics() []model.TopicInfo {
	out := make([]model.TopicInfo, 0, len(p.topics)+1)
	out = append(out, model.TopicInfo{Name: model.TopicMixed, Count: len(p.questions)})
	for _, t := range p.topics {
		out = append(out, model.TopicInfo{Name: t, Count: p.counts[t]})
	}
	return out
}

// Degenerate counts questions whose answer did not resolve to an option.
func (p *Pool) Degenerate() int {
	n := 0
	for _, q := range p.questions {
		if !q.Answerable() {
			n++
		}
	}
	return n
}
