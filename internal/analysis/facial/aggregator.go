package facial

import (
	"sort"

	"github.com/samber/lo"

	"github.com/ChandanDev27/Interview-backend/internal/models"
)

// Aggregate reduces a frame sample sequence into a dominant-emotion
// summary. It is a pure function: no side effects, identical output for
// identical input.
//
// Error-labeled samples are excluded everywhere. Percentages are taken
// over valid samples only. Top-3 ranks by count descending with ties
// broken by order of first appearance in the sequence.
func Aggregate(samples []models.FrameSample) models.FacialSummary {
	if len(samples) == 0 {
		return models.FacialSummary{Detail: models.NoEmotionsDetected}
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	timestamps := make(map[string][]float64)

	valid := 0
	for i, s := range samples {
		if s.Emotion == models.EmotionError {
			continue
		}
		if _, seen := counts[s.Emotion]; !seen {
			firstSeen[s.Emotion] = i
		}
		counts[s.Emotion]++
		timestamps[s.Emotion] = append(timestamps[s.Emotion], s.OffsetSec)
		valid++
	}

	if valid == 0 {
		return models.FacialSummary{Detail: models.NoValidEmotionsDetected}
	}

	percentages := make(map[string]float64, len(counts))
	for label, n := range counts {
		percentages[label] = float64(n) / float64(valid) * 100
	}

	labels := lo.Keys(counts)
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return firstSeen[labels[i]] < firstSeen[labels[j]]
	})
	if len(labels) > 3 {
		labels = labels[:3]
	}

	top3 := lo.Map(labels, func(label string, _ int) models.EmotionCount {
		return models.EmotionCount{Emotion: label, Count: counts[label]}
	})

	return models.FacialSummary{
		DominantEmotions: counts,
		Percentages:      percentages,
		Top3:             top3,
		Timestamps:       timestamps,
	}
}

// MostFrequent returns the top-ranked emotion label, or empty for
// degenerate summaries.
func MostFrequent(summary models.FacialSummary) string {
	if len(summary.Top3) == 0 {
		return ""
	}
	return summary.Top3[0].Emotion
}
