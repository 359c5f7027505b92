// Package feedback turns facial and speech metrics into candidate-facing
// suggestions and a short narrative. Synthesis is rule-based and
// deterministic: the same summaries and thresholds always produce the same
// text.
package feedback

import (
	"fmt"
	"time"

	"github.com/ChandanDev27/Interview-backend/internal/analysis/facial"
	"github.com/ChandanDev27/Interview-backend/internal/config"
	"github.com/ChandanDev27/Interview-backend/internal/models"
)

// rule is one threshold check with phrasing per experience level.
type rule struct {
	violated bool
	beginner string
	advanced string
}

// Synthesize builds the feedback payload for one analysis run. Degenerate
// halves (Detail set) contribute no rules; the suggestion list is never
// empty.
func Synthesize(facialSummary models.FacialSummary, speech models.SpeechSummary, level models.ExperienceLevel, th config.Thresholds) models.FeedbackPayload {
	rules := collectRules(facialSummary, speech, th)

	var suggestions []string
	for _, r := range rules {
		if !r.violated {
			continue
		}
		if level == models.LevelBeginner {
			suggestions = append(suggestions, r.beginner)
		} else {
			suggestions = append(suggestions, r.advanced)
		}
	}
	if len(suggestions) == 0 {
		suggestions = []string{"Great job! Your delivery was confident and clear. Keep it up."}
	}

	return models.FeedbackPayload{
		FacialSummary: facialSummary,
		SpeechSummary: speech,
		Suggestions:   suggestions,
		Narrative:     narrative(facialSummary, speech),
		GeneratedAt:   time.Now().UTC(),
	}
}

func collectRules(facialSummary models.FacialSummary, speech models.SpeechSummary, th config.Thresholds) []rule {
	var rules []rule

	if facialSummary.Detail == "" {
		smile := facialSummary.Percentages["happy"]
		engaged := smile + facialSummary.Percentages["neutral"]
		nervous := facialSummary.Percentages["fear"] + facialSummary.Percentages["surprise"]

		rules = append(rules,
			rule{
				violated: smile < th.MinSmilePct,
				beginner: "You might try to smile a little more; it makes your answers feel warmer.",
				advanced: "Work on smiling more often to come across as warm and approachable.",
			},
			rule{
				violated: engaged < th.MinEngagedPct,
				beginner: "You might try to keep steadier eye contact with the camera.",
				advanced: "Work on maintaining eye contact; you appeared disengaged for long stretches.",
			},
			rule{
				violated: nervous > th.MaxNervousPct,
				beginner: "You might try a slow breath before answering to settle visible nerves.",
				advanced: "Work on composure; nervous expressions dominated too much of the session.",
			},
		)
	}

	if speech.Detail == "" {
		rules = append(rules,
			rule{
				violated: speech.Intonation == models.IntonationLow,
				beginner: "You might try varying your tone so key points stand out.",
				advanced: "Work on vocal variety; a flat tone undersells your strongest answers.",
			},
			rule{
				violated: speech.SentimentScore < th.MinSentiment,
				beginner: "You might try framing your answers in more positive language.",
				advanced: "Work on positive framing; your wording skewed negative overall.",
			},
			rule{
				violated: speech.SpeechRate > th.MaxSpeechRate,
				beginner: "You might try slowing down a little so every point lands.",
				advanced: "Work on pacing; you spoke too fast for the listener to follow.",
			},
			rule{
				violated: speech.SpeechRate > 0 && speech.SpeechRate < th.MinSpeechRate,
				beginner: "You might try adding a bit more detail and keeping a steadier pace.",
				advanced: "Work on pace and substance; long pauses left your answers feeling thin.",
			},
			rule{
				violated: speech.ClarityScore < th.MinClarity,
				beginner: "You might try articulating a little more crisply.",
				advanced: "Work on articulation; parts of your speech were hard to make out.",
			},
		)
	}

	return rules
}

func narrative(facialSummary models.FacialSummary, speech models.SpeechSummary) string {
	dominant := facial.MostFrequent(facialSummary)
	if dominant == "" {
		dominant = "neutral"
	}
	if speech.Detail != "" {
		return fmt.Sprintf(
			"During the interview you appeared mostly %s. Your speech could not be assessed this time. Keep practicing; every session builds on the last.",
			dominant)
	}
	return fmt.Sprintf(
		"During the interview you appeared mostly %s, and your speech clarity scored %.1f out of 10. Keep practicing; every session builds on the last.",
		dominant, speech.ClarityScore)
}
