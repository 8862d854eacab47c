package model

// Tier is the qualitative level derived from the predicted score.
type Tier string

const (
	TierExpert       Tier = "Expert"
	TierIntermediate Tier = "Intermediate"
	TierBeginner     Tier = "Beginner"
)

// GaugeBand is one colored segment of the result gauge.
type GaugeBand struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Color string `json:"color"`
}

// Result is the scored outcome of a finished session.
type Result struct {
	Correct        int       `json:"correct"`
	Wrong          int       `json:"wrong"`
	Skipped        int       `json:"skipped"`
	Attempted      int       `json:"attempted"`
	Accuracy       float64   `json:"accuracy"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	PredictedScore int       `json:"predicted_score"`
	Tier           Tier      `json:"tier"`
	Band           GaugeBand `json:"band"`
}

// ModeInfo describes a selectable mode in the catalog.
type ModeInfo struct {
	Name             Mode `json:"name"`
	TimeLimitSeconds int  `json:"time_limit_seconds"`
}

// Catalog lists everything the setup screen offers.
type Catalog struct {
	Topics []TopicInfo `json:"topics"`
	Modes  []ModeInfo  `json:"modes"`
}
