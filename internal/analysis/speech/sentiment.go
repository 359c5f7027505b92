package speech

import (
	"strings"

	"github.com/jonreiter/govader"

	"github.com/ChandanDev27/Interview-backend/internal/models"
)

// scorer wraps the VADER lexicon model. Built once at startup and shared
// read-only across requests.
type scorer struct {
	sia *govader.SentimentIntensityAnalyzer
}

func newScorer() *scorer {
	return &scorer{sia: govader.NewSentimentIntensityAnalyzer()}
}

// polarity returns the compound score in [-1, 1].
func (s *scorer) polarity(text string) float64 {
	return s.sia.PolarityScores(text).Compound
}

// splitSentences breaks a transcript on terminal punctuation. Empty
// fragments are dropped.
func splitSentences(transcript string) []string {
	var sentences []string
	var b strings.Builder

	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}

	for _, r := range transcript {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()

	return sentences
}

// label applies the symmetric neutral band around zero.
func label(polarity, neutralBand float64) string {
	switch {
	case polarity > neutralBand:
		return models.SentimentPositive
	case polarity < -neutralBand:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// scoreSentences computes per-sentence sentiment and the overall label.
//
// The canonical overall rule is: average the per-sentence polarities, then
// threshold the mean against the neutral band. Majority voting across
// sentence labels is deliberately not supported.
func (s *scorer) scoreSentences(sentences []string, neutralBand float64) ([]models.SentenceSentiment, string, float64) {
	if len(sentences) == 0 {
		return nil, models.SentimentNeutral, 0
	}

	scored := make([]models.SentenceSentiment, 0, len(sentences))
	var sum float64
	for _, sentence := range sentences {
		p := s.polarity(sentence)
		sum += p
		scored = append(scored, models.SentenceSentiment{
			Sentence: sentence,
			Polarity: p,
			Label:    label(p, neutralBand),
		})
	}

	mean := sum / float64(len(sentences))
	return scored, label(mean, neutralBand), mean
}
