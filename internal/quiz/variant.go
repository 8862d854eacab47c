package quiz

import (
	"math/rand/v2"
	"strings"

	"github.com/stemsi/aptitude-quiz/internal/model"
)

// VariantTag is appended to the topic of every generated variant.
const VariantTag = " (AI)"

// GenerateVariants picks min(n, len(pool)) questions without replacement and
// returns a cosmetically altered copy of each. Every '1' in the question text
// becomes a random digit in [2,9] and the options are permuted. The answer is
// copied as-is, so a numeric question may no longer match its answer.
func GenerateVariants(rng *rand.Rand, pool []model.Question, n int) []model.Question {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}

	picks := rng.Perm(len(pool))[:n]
	variants := make([]model.Question, 0, n)
	for _, idx := range picks {
		variants = append(variants, makeVariant(rng, pool[idx]))
	}
	return variants
}

func makeVariant(rng *rand.Rand, src model.Question) model.Question {
	v := model.Question{
		Topic:    src.Topic + VariantTag,
		Question: substituteOnes(rng, src.Question),
		Options:  src.Options,
		Answer:   src.Answer,
	}
	rng.Shuffle(len(v.Options), func(i, j int) {
		v.Options[i], v.Options[j] = v.Options[j], v.Options[i]
	})
	return v
}

func substituteOnes(rng *rand.Rand, text string) string {
	if !strings.Contains(text, "1") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '1' {
			b.WriteByte(byte('2' + rng.IntN(8)))
			continue
		}
		b.WriteByte(text[i])
	}
	return b.String()
}
