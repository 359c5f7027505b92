package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ChandanDev27/Interview-backend/internal/apperr"
)

type Transcription struct {
	Transcript string `json:"transcript"`
	Language   string `json:"language"`
}

type SpeechClient struct {
	c       *http.Client
	baseURL string
}

func NewSpeechClient(baseURL string) *SpeechClient {
	return &SpeechClient{c: newHTTPClient(), baseURL: baseURL}
}

// Transcribe uploads the WAV track to the recognizer's /transcribe
// endpoint. Transport failures and 5xx responses are classified as
// SpeechServiceUnavailable; a 4xx response or an empty transcript means the
// audio carried no recognizable speech.
func (sc *SpeechClient) Transcribe(ctx context.Context, wavPath string) (*Transcription, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(wavPath)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sc.baseURL+"/transcribe", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := sc.c.Do(req)
	if err != nil {
		return nil, apperr.E(apperr.KindSpeechServiceUnavailable, "speech recognition service unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(resp.Body)
		return nil, apperr.E(apperr.KindSpeechServiceUnavailable,
			fmt.Sprintf("speech recognition service failed: %s", resp.Status),
			fmt.Errorf("asr %s: %s", resp.Status, string(body)))
	case resp.StatusCode >= 400:
		return nil, apperr.E(apperr.KindUnintelligibleAudio, "could not understand audio", nil)
	}

	var out Transcription
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("asr decode: %w", err)
	}
	if out.Transcript == "" {
		return nil, apperr.E(apperr.KindUnintelligibleAudio, "could not understand audio", nil)
	}
	return &out, nil
}
