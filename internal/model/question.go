package model

// OptionCount is the number of choices every question carries.
const OptionCount = 4

// TopicMixed selects the whole question pool instead of a single topic.
const TopicMixed = "Jumbled"

// Question represents a single multiple-choice question.
// Answer holds the text of the correct option, or "" when the source row
// named an answer letter outside A–D.
type Question struct {
	Topic    string              `json:"topic"`
	Question string              `json:"question"`
	Options  [OptionCount]string `json:"options"`
	Answer   string              `json:"answer"`
}

// Answerable reports whether the answer resolves to one of the options.
func (q Question) Answerable() bool {
	if q.Answer == "" {
		return false
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return true
		}
	}
	return false
}

// QuestionView is the player-facing projection of a question. It never
// carries the answer.
type QuestionView struct {
	Number   int                 `json:"number"`
	Total    int                 `json:"total"`
	Topic    string              `json:"topic"`
	Question string              `json:"question"`
	Options  [OptionCount]string `json:"options"`
}

// TopicInfo describes a selectable topic in the catalog.
type TopicInfo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
