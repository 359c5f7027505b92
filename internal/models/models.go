package models

import (
	"time"

	"github.com/google/uuid"
)

type TrackKind string

const (
	TrackVideo TrackKind = "video"
	TrackAudio TrackKind = "audio"
)

// MediaAsset is a temporary handle to an uploaded or derived media track.
// It is owned by the request that created it and must be deleted on every
// exit path.
type MediaAsset struct {
	Path        string
	ContentType string
	DurationSec float64
	Kind        TrackKind
}

// EmotionError is the sentinel label recorded when a sampled frame could
// not be classified. Sentinel samples never abort a scan and are excluded
// from aggregation.
const EmotionError = "error"

// FrameSample is one sampled video instant. Offsets are non-decreasing
// within a scan.
type FrameSample struct {
	OffsetSec float64            `json:"offset_sec" bson:"offset_sec"`
	Emotion   string             `json:"emotion" bson:"emotion"`
	Scores    map[string]float64 `json:"scores,omitempty" bson:"scores,omitempty"`
}

type EmotionCount struct {
	Emotion string `json:"emotion" bson:"emotion"`
	Count   int    `json:"count" bson:"count"`
}

// Sentinel details for degenerate facial summaries.
const (
	NoEmotionsDetected      = "no emotions detected"
	NoValidEmotionsDetected = "no valid emotions detected"
)

// FacialSummary is the read-only reduction of a FrameSample sequence.
type FacialSummary struct {
	Detail           string               `json:"detail,omitempty" bson:"detail,omitempty"`
	DominantEmotions map[string]int       `json:"dominant_emotions,omitempty" bson:"dominant_emotions,omitempty"`
	Percentages      map[string]float64   `json:"percentage,omitempty" bson:"percentage,omitempty"`
	Top3             []EmotionCount       `json:"top_3,omitempty" bson:"top_3,omitempty"`
	Timestamps       map[string][]float64 `json:"timestamps,omitempty" bson:"timestamps,omitempty"`
}

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

type SentenceSentiment struct {
	Sentence string  `json:"sentence" bson:"sentence"`
	Polarity float64 `json:"polarity" bson:"polarity"`
	Label    string  `json:"label" bson:"label"`
}

// Intonation classes derived from mean voiced pitch.
const (
	IntonationLow      = "low"
	IntonationModerate = "moderate"
	IntonationHigh     = "high"
)

// SpeechSummary carries the transcript and derived speech characteristics.
// Detail is set instead of the derived fields when recognition failed; the
// speech half then degrades without touching the facial half.
type SpeechSummary struct {
	Detail           string              `json:"detail,omitempty" bson:"detail,omitempty"`
	Transcript       string              `json:"transcript" bson:"transcript"`
	Language         string              `json:"language,omitempty" bson:"language,omitempty"`
	Sentences        []SentenceSentiment `json:"sentence_sentiments,omitempty" bson:"sentence_sentiments,omitempty"`
	OverallSentiment string              `json:"overall_sentiment,omitempty" bson:"overall_sentiment,omitempty"`
	SentimentScore   float64             `json:"sentiment_score" bson:"sentiment_score"`
	Intonation       string              `json:"intonation,omitempty" bson:"intonation,omitempty"`
	SpeechRate       float64             `json:"speech_rate" bson:"speech_rate"`
	ClarityScore     float64             `json:"clarity_score" bson:"clarity_score"`
	WordCount        int                 `json:"word_count" bson:"word_count"`
	Keywords         []string            `json:"keywords,omitempty" bson:"keywords,omitempty"`
}

type ExperienceLevel string

const (
	LevelBeginner ExperienceLevel = "beginner"
	LevelAdvanced ExperienceLevel = "advanced"
)

// FeedbackPayload is immutable once generated; a new analysis run produces
// a new payload.
type FeedbackPayload struct {
	FacialSummary FacialSummary `json:"facial_summary" bson:"facial_summary"`
	SpeechSummary SpeechSummary `json:"speech_summary" bson:"speech_summary"`
	Suggestions   []string      `json:"suggestions" bson:"suggestions"`
	Narrative     string        `json:"narrative" bson:"narrative"`
	GeneratedAt   time.Time     `json:"timestamp" bson:"timestamp"`
}

// Report is the combined response returned to the upload boundary.
type Report struct {
	FacialAnalysis []FrameSample   `json:"facial_analysis"`
	FacialSummary  FacialSummary   `json:"facial_summary"`
	SpeechAnalysis SpeechSummary   `json:"speech_analysis"`
	Feedback       FeedbackPayload `json:"feedback_for_candidate"`
	Persisted      bool            `json:"persisted"`
}

// Interview status values observed through the store contract.
const (
	StatusPending  = "pending"
	StatusAnalyzed = "analyzed"
)

// AnalysisLog is one persisted analysis run, keyed by interview and user.
type AnalysisLog struct {
	ID             string          `json:"id" bson:"_id"`
	InterviewID    string          `json:"interview_id" bson:"interview_id"`
	UserID         string          `json:"user_id" bson:"user_id"`
	FacialAnalysis []FrameSample   `json:"facial_analysis" bson:"facial_analysis"`
	FacialSummary  FacialSummary   `json:"facial_summary" bson:"facial_summary"`
	SpeechAnalysis SpeechSummary   `json:"speech_analysis" bson:"speech_analysis"`
	Feedback       FeedbackPayload `json:"feedback" bson:"feedback"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at"`
}

func NewAnalysisLog(interviewID, userID string, report *Report) *AnalysisLog {
	return &AnalysisLog{
		ID:             uuid.New().String(),
		InterviewID:    interviewID,
		UserID:         userID,
		FacialAnalysis: report.FacialAnalysis,
		FacialSummary:  report.FacialSummary,
		SpeechAnalysis: report.SpeechAnalysis,
		Feedback:       report.Feedback,
		CreatedAt:      time.Now().UTC(),
	}
}
