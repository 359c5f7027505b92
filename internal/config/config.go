package config

import (
	"fmt"

	env "github.com/Netflix/go-env"
)

// Config is the process configuration, loaded from the environment once at
// startup.
type Config struct {
	Host          string `env:"HOST,default=0.0.0.0"`
	Port          int    `env:"PORT,default=8080"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE,default=104857600"`
	TempDir       string `env:"TEMP_DIR,default="`

	MongoURI      string `env:"MONGO_URI,default=mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE,default=interview"`

	EmotionServiceURL string `env:"EMOTION_SERVICE_URL,required=true"`
	SpeechServiceURL  string `env:"SPEECH_SERVICE_URL,required=true"`

	AnalysisWorkers int    `env:"ANALYSIS_WORKERS,default=4"`
	LogLevel        string `env:"LOG_LEVEL,default=info"`

	Thresholds Thresholds
}

// Thresholds centralizes every tunable used by the speech analyzer and the
// feedback synthesizer. It is passed by value so no component can mutate a
// shared copy.
type Thresholds struct {
	SampleIntervalSec float64 `env:"SAMPLE_INTERVAL_SEC,default=1"`
	MinDurationSec    float64 `env:"MIN_DURATION_SEC,default=3"`

	// Sentiment: symmetric band around zero for the neutral label.
	SentimentNeutralBand float64 `env:"SENTIMENT_NEUTRAL_BAND,default=0.05"`

	// Pitch bands (Hz) separating low / moderate / high intonation.
	PitchLowHz  float64 `env:"PITCH_LOW_HZ,default=120"`
	PitchHighHz float64 `env:"PITCH_HIGH_HZ,default=200"`

	TopKeywords int `env:"TOP_KEYWORDS,default=10"`

	// Feedback rule thresholds. Percentages are 0-100, rates words/second,
	// clarity 0-10.
	MinSmilePct   float64 `env:"MIN_SMILE_PCT,default=20"`
	MinEngagedPct float64 `env:"MIN_ENGAGED_PCT,default=50"`
	MaxNervousPct float64 `env:"MAX_NERVOUS_PCT,default=30"`
	MinSentiment  float64 `env:"MIN_SENTIMENT,default=0"`
	MinSpeechRate float64 `env:"MIN_SPEECH_RATE,default=1"`
	MaxSpeechRate float64 `env:"MAX_SPEECH_RATE,default=3"`
	MinClarity    float64 `env:"MIN_CLARITY,default=5"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.Thresholds.SampleIntervalSec < 1 || cfg.Thresholds.SampleIntervalSec > 3 {
		return nil, fmt.Errorf("SAMPLE_INTERVAL_SEC must be between 1 and 3, got %v", cfg.Thresholds.SampleIntervalSec)
	}
	if cfg.AnalysisWorkers < 1 {
		return nil, fmt.Errorf("ANALYSIS_WORKERS must be positive, got %d", cfg.AnalysisWorkers)
	}
	return &cfg, nil
}

// DefaultThresholds returns the built-in tunables, used when no environment
// is present (CLI, tests).
func DefaultThresholds() Thresholds {
	return Thresholds{
		SampleIntervalSec:    1,
		MinDurationSec:       3,
		SentimentNeutralBand: 0.05,
		PitchLowHz:           120,
		PitchHighHz:          200,
		TopKeywords:          10,
		MinSmilePct:          20,
		MinEngagedPct:        50,
		MaxNervousPct:        30,
		MinSentiment:         0,
		MinSpeechRate:        1,
		MaxSpeechRate:        3,
		MinClarity:           5,
	}
}
