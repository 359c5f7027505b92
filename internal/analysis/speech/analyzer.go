package speech

import (
	"context"
	"log/slog"
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/ChandanDev27/Interview-backend/internal/apperr"
	"github.com/ChandanDev27/Interview-backend/internal/clients"
	"github.com/ChandanDev27/Interview-backend/internal/config"
	"github.com/ChandanDev27/Interview-backend/internal/models"
)

// Analyzer transcribes a normalized audio track and derives sentiment,
// prosody, rate and keyword characteristics. The recognizer and sentiment
// model are read-only singletons shared across requests; thresholds are
// passed by value.
type Analyzer struct {
	recognizer clients.SpeechRecognizer
	scorer     *scorer
	log        *slog.Logger
}

func NewAnalyzer(recognizer clients.SpeechRecognizer, log *slog.Logger) *Analyzer {
	return &Analyzer{
		recognizer: recognizer,
		scorer:     newScorer(),
		log:        log,
	}
}

// Analyze produces the SpeechSummary for one audio asset. Recognition
// failures (unintelligible audio, unavailable service) come back as a
// sentinel summary with a nil error so the facial half of a report can
// still succeed; any other failure is returned as an error.
func (a *Analyzer) Analyze(ctx context.Context, audio models.MediaAsset, th config.Thresholds) (models.SpeechSummary, error) {
	tr, err := a.recognizer.Transcribe(ctx, audio.Path)
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindUnintelligibleAudio, apperr.KindSpeechServiceUnavailable:
			a.log.Warn("speech recognition degraded", "kind", apperr.KindOf(err), "error", err)
			return models.SpeechSummary{Detail: apperr.MessageOf(err)}, nil
		}
		return models.SpeechSummary{}, err
	}

	transcript := strings.TrimSpace(tr.Transcript)

	sentences, overall, meanPolarity := a.scorer.scoreSentences(splitSentences(transcript), th.SentimentNeutralBand)

	summary := models.SpeechSummary{
		Transcript:       transcript,
		Language:         a.language(tr),
		Sentences:        sentences,
		OverallSentiment: overall,
		SentimentScore:   meanPolarity,
		WordCount:        len(strings.Fields(transcript)),
		Keywords:         extractKeywords(transcript, th.TopKeywords),
	}

	duration := audio.DurationSec

	samples, sampleRate, err := loadWAV(audio.Path)
	if err != nil {
		// Prosody is derived, not essential: a transcript without pitch
		// data still beats no speech summary at all.
		a.log.Warn("prosody extraction failed", "path", audio.Path, "error", err)
		summary.Intonation = models.IntonationModerate
	} else {
		p := measureProsody(samples, sampleRate)
		summary.Intonation = classifyPitch(p.meanPitchHz, th.PitchLowHz, th.PitchHighHz)
		summary.ClarityScore = p.clarity
		if duration <= 0 {
			duration = p.durationSec
		}
	}

	if duration > 0 {
		summary.SpeechRate = float64(summary.WordCount) / duration
	}

	return summary, nil
}

// language prefers what the recognizer reported and falls back to
// detection on the transcript text.
func (a *Analyzer) language(tr *clients.Transcription) string {
	if tr.Language != "" {
		return tr.Language
	}
	info := whatlanggo.Detect(tr.Transcript)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
