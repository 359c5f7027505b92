package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

type EmotionScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type EmotionResult struct {
	Emotions        []EmotionScore `json:"emotions"`
	DominantEmotion string         `json:"dominant_emotion"`
}

// ScoreMap flattens the per-label scores.
func (r *EmotionResult) ScoreMap() map[string]float64 {
	m := make(map[string]float64, len(r.Emotions))
	for _, e := range r.Emotions {
		m[e.Label] = e.Score
	}
	return m
}

type EmotionClient struct {
	c       *http.Client
	baseURL string
}

func NewEmotionClient(baseURL string) *EmotionClient {
	return &EmotionClient{c: newHTTPClient(), baseURL: baseURL}
}

// ClassifyFrame posts one JPEG frame to the classifier's /classify endpoint.
func (ec *EmotionClient) ClassifyFrame(ctx context.Context, frame []byte) (*EmotionResult, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("frame", "frame.jpg")
	if err != nil {
		return nil, err
	}
	if _, err = fw.Write(frame); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ec.baseURL+"/classify", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := ec.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("emotion %s: %s", resp.Status, string(body))
	}

	var out EmotionResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("emotion decode: %w", err)
	}
	return &out, nil
}
