// Package clients wraps the frozen inference capabilities (emotion
// classifier, speech recognizer) exposed by sidecar services. Clients are
// constructed once at startup, are read-only, and are safe for concurrent
// use across requests.
package clients

import (
	"context"
	"net/http"
	"time"
)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}

// EmotionClassifier classifies the dominant emotion on a single frame.
type EmotionClassifier interface {
	ClassifyFrame(ctx context.Context, frame []byte) (*EmotionResult, error)
}

// SpeechRecognizer transcribes a normalized WAV track.
type SpeechRecognizer interface {
	Transcribe(ctx context.Context, wavPath string) (*Transcription, error)
}
