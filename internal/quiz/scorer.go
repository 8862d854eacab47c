package quiz

import (
	"fmt"
	"math"
	"time"

	"github.com/stemsi/aptitude-quiz/internal/model"
)

const (
	MinPredictedScore = 70
	MaxPredictedScore = 140
)

// GaugeBands are the colored segments of the result gauge, low to high.
var GaugeBands = []model.GaugeBand{
	{Min: 70, Max: 90, Color: "#ff4b4b"},
	{Min: 90, Max: 100, Color: "#ff914d"},
	{Min: 100, Max: 120, Color: "#ffd93d"},
	{Min: 120, Max: 130, Color: "#6bcf63"},
	{Min: 130, Max: 140, Color: "#4d96ff"},
}

// Score maps the final counters and elapsed time to a result.
// Skipped questions do not enter the formula.
func Score(correct, wrong int, elapsed time.Duration) model.Result {
	attempted := correct + wrong

	var accuracy float64
	if attempted > 0 {
		accuracy = float64(correct) / float64(attempted) * 100
	}

	raw := 80 + 3*float64(correct) - float64(wrong) - elapsed.Seconds()/10
	predicted := int(math.Floor(raw))
	predicted = max(MinPredictedScore, min(MaxPredictedScore, predicted))

	return model.Result{
		Correct:        correct,
		Wrong:          wrong,
		Attempted:      attempted,
		Accuracy:       accuracy,
		ElapsedSeconds: elapsed.Seconds(),
		PredictedScore: predicted,
		Tier:           TierFor(predicted),
		Band:           BandFor(predicted),
	}
}

// TierFor returns the level for a predicted score.
func TierFor(predicted int) model.Tier {
	switch {
	case predicted >= 120:
		return model.TierExpert
	case predicted >= 100:
		return model.TierIntermediate
	default:
		return model.TierBeginner
	}
}

// BandFor returns the gauge band containing predicted. The top band is
// closed on both ends.
func BandFor(predicted int) model.GaugeBand {
	for _, b := range GaugeBands {
		if predicted >= b.Min && predicted < b.Max {
			return b
		}
	}
	if predicted < GaugeBands[0].Min {
		return GaugeBands[0]
	}
	return GaugeBands[len(GaugeBands)-1]
}

// FormatClock renders seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
