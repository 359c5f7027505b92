package feedback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ChandanDev27/Interview-backend/internal/config"
	"github.com/ChandanDev27/Interview-backend/internal/models"
)

func goodFacial() models.FacialSummary {
	return models.FacialSummary{
		Percentages: map[string]float64{"happy": 60, "neutral": 40},
		Top3:        []models.EmotionCount{{Emotion: "happy", Count: 6}, {Emotion: "neutral", Count: 4}},
	}
}

func goodSpeech() models.SpeechSummary {
	return models.SpeechSummary{
		Transcript:       "I led the migration and it went well.",
		OverallSentiment: models.SentimentPositive,
		SentimentScore:   0.4,
		Intonation:       models.IntonationModerate,
		SpeechRate:       2.0,
		ClarityScore:     8.0,
	}
}

func TestSynthesizeZeroViolations(t *testing.T) {
	got := Synthesize(goodFacial(), goodSpeech(), models.LevelAdvanced, config.DefaultThresholds())

	require.Len(t, got.Suggestions, 1)
	require.Contains(t, got.Suggestions[0], "Great job")
	require.Contains(t, got.Narrative, "happy")
	require.Contains(t, got.Narrative, "8.0")
}

func TestSynthesizeFiresEachRule(t *testing.T) {
	facialSummary := models.FacialSummary{
		// 10% happy, 20% neutral, 25% fear + 15% surprise: smile, engagement
		// and nervousness rules all fire.
		Percentages: map[string]float64{"happy": 10, "neutral": 20, "fear": 25, "surprise": 15, "sad": 30},
		Top3:        []models.EmotionCount{{Emotion: "sad", Count: 3}},
	}
	speech := models.SpeechSummary{
		Transcript:     "bad",
		SentimentScore: -0.3,
		Intonation:     models.IntonationLow,
		SpeechRate:     4.5,
		ClarityScore:   2.0,
	}

	got := Synthesize(facialSummary, speech, models.LevelAdvanced, config.DefaultThresholds())

	require.Len(t, got.Suggestions, 7)
	for _, s := range got.Suggestions {
		require.True(t, strings.HasPrefix(s, "Work on"), "advanced phrasing expected, got %q", s)
	}
}

func TestSynthesizeSlowSpeechRule(t *testing.T) {
	speech := goodSpeech()
	speech.SpeechRate = 0.5

	got := Synthesize(goodFacial(), speech, models.LevelAdvanced, config.DefaultThresholds())

	require.Len(t, got.Suggestions, 1)
	require.Contains(t, got.Suggestions[0], "pace")
}

func TestSynthesizeZeroRateDoesNotFireSlowRule(t *testing.T) {
	// Rate 0 means duration was unknown, not that the candidate was slow.
	speech := goodSpeech()
	speech.SpeechRate = 0

	got := Synthesize(goodFacial(), speech, models.LevelAdvanced, config.DefaultThresholds())
	require.Contains(t, got.Suggestions[0], "Great job")
}

func TestSynthesizeBeginnerPhrasing(t *testing.T) {
	speech := goodSpeech()
	speech.ClarityScore = 2

	got := Synthesize(goodFacial(), speech, models.LevelBeginner, config.DefaultThresholds())

	require.Len(t, got.Suggestions, 1)
	require.True(t, strings.HasPrefix(got.Suggestions[0], "You might try"), "got %q", got.Suggestions[0])
}

func TestSynthesizeFacialOnly(t *testing.T) {
	speech := models.SpeechSummary{Detail: "could not understand audio"}

	got := Synthesize(goodFacial(), speech, models.LevelAdvanced, config.DefaultThresholds())

	require.NotEmpty(t, got.Suggestions)
	require.Contains(t, got.Narrative, "could not be assessed")
}

func TestSynthesizeBothHalvesDegenerate(t *testing.T) {
	got := Synthesize(
		models.FacialSummary{Detail: models.NoEmotionsDetected},
		models.SpeechSummary{Detail: "speech recognition service unreachable"},
		models.LevelAdvanced, config.DefaultThresholds())

	require.Len(t, got.Suggestions, 1)
	require.Contains(t, got.Suggestions[0], "Great job")
}

func TestSynthesizeDeterministic(t *testing.T) {
	facialSummary := goodFacial()
	facialSummary.Percentages["happy"] = 5

	a := Synthesize(facialSummary, goodSpeech(), models.LevelAdvanced, config.DefaultThresholds())
	b := Synthesize(facialSummary, goodSpeech(), models.LevelAdvanced, config.DefaultThresholds())

	require.Equal(t, a.Suggestions, b.Suggestions)
	require.Equal(t, a.Narrative, b.Narrative)
}
