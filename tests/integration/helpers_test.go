package integration

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ChandanDev27/Interview-backend/internal/analysis/speech"
	"github.com/ChandanDev27/Interview-backend/internal/api"
	"github.com/ChandanDev27/Interview-backend/internal/clients"
	"github.com/ChandanDev27/Interview-backend/internal/config"
	"github.com/ChandanDev27/Interview-backend/internal/models"
	"github.com/ChandanDev27/Interview-backend/internal/report"
	"github.com/ChandanDev27/Interview-backend/internal/storage"
	"github.com/ChandanDev27/Interview-backend/internal/workers"
)

// testEnv wires the real pipeline (clients, speech analyzer, aggregation,
// feedback, assembler, router) against fake inference services. Only the
// ffmpeg-bound pieces are stubbed: the ingestor yields pre-made assets and
// the scanner feeds synthetic frames to the real emotion client.
type testEnv struct {
	Server     *httptest.Server
	Assets     *storage.LocalStore
	Store      *memoryStore
	VideoPath  string
	AudioPath  string
	SpeechMode *speechMode
}

// speechMode lets a test flip the fake recognizer between behaviors.
type speechMode struct {
	mu   sync.Mutex
	fail int // HTTP status to return; 0 means success
}

func (m *speechMode) set(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = status
}

func (m *speechMode) get() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fail
}

type memoryStore struct {
	mu      sync.Mutex
	saved   []*models.Report
	entries []*models.AnalysisLog
}

func (s *memoryStore) SaveAnalysis(ctx context.Context, interviewID, userID string, r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, r)
	s.entries = append(s.entries, models.NewAnalysisLog(interviewID, userID, r))
	return nil
}

func (s *memoryStore) GetLatestAnalysis(ctx context.Context, interviewID, userID string) (*models.AnalysisLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].InterviewID == interviewID && s.entries[i].UserID == userID {
			return s.entries[i], nil
		}
	}
	return nil, nil
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

// stubIngestor hands out assets created ahead of the request.
type stubIngestor struct {
	video models.MediaAsset
	audio models.MediaAsset
}

func (s *stubIngestor) Ingest(ctx context.Context, video, audio io.Reader) (models.MediaAsset, models.MediaAsset, error) {
	return s.video, s.audio, nil
}

// clientScanner drives the real emotion client with synthetic frames, one
// per sampling interval.
type clientScanner struct {
	client *clients.EmotionClient
}

func (s *clientScanner) Scan(ctx context.Context, video models.MediaAsset, intervalSec float64) ([]models.FrameSample, error) {
	var samples []models.FrameSample
	for offset := 0.0; offset < video.DurationSec; offset += intervalSec {
		result, err := s.client.ClassifyFrame(ctx, []byte{0xff, 0xd8, byte(offset)})
		if err != nil {
			samples = append(samples, models.FrameSample{OffsetSec: offset, Emotion: models.EmotionError})
			continue
		}
		samples = append(samples, models.FrameSample{OffsetSec: offset, Emotion: result.DominantEmotion, Scores: result.ScoreMap()})
	}
	return samples, nil
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	emotionSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(clients.EmotionResult{
			DominantEmotion: "happy",
			Emotions:        []clients.EmotionScore{{Label: "happy", Score: 0.9}, {Label: "neutral", Score: 0.1}},
		})
	}))
	t.Cleanup(emotionSrv.Close)

	mode := &speechMode{}
	speechSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" {
			http.NotFound(w, r)
			return
		}
		if status := mode.get(); status != 0 {
			w.WriteHeader(status)
			return
		}
		json.NewEncoder(w).Encode(clients.Transcription{
			Transcript: "I am glad to walk you through my project today.",
			Language:   "en",
		})
	}))
	t.Cleanup(speechSrv.Close)

	assets, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	videoPath, err := assets.Save(io.LimitReader(neverEnding('v'), 1024), ".mp4")
	if err != nil {
		t.Fatal(err)
	}
	audioPath := writeWAV(t, assets)

	ingestor := &stubIngestor{
		video: models.MediaAsset{Path: videoPath, DurationSec: 10, Kind: models.TrackVideo},
		audio: models.MediaAsset{Path: audioPath, DurationSec: 10, Kind: models.TrackAudio},
	}

	store := &memoryStore{}
	scanner := &clientScanner{client: clients.NewEmotionClient(emotionSrv.URL)}
	analyzer := speech.NewAnalyzer(clients.NewSpeechClient(speechSrv.URL), log)

	assembler := report.NewAssembler(ingestor, scanner, analyzer, store, assets,
		workers.NewPool(2), log, config.DefaultThresholds())

	app := api.NewApp(assembler, store, 10<<20, log)
	server := httptest.NewServer(api.NewRouter(app))
	t.Cleanup(server.Close)

	return &testEnv{
		Server:     server,
		Assets:     assets,
		Store:      store,
		VideoPath:  videoPath,
		AudioPath:  audioPath,
		SpeechMode: mode,
	}
}

type neverEnding byte

func (b neverEnding) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(b)
	}
	return len(p), nil
}

func writeWAV(t *testing.T, assets *storage.LocalStore) string {
	t.Helper()

	path := assets.NewPath(".wav")
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	const sampleRate = 16000
	enc := wav.NewEncoder(out, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, sampleRate),
	}
	for i := range buf.Data {
		buf.Data[i] = int(12000 * math.Sin(2*math.Pi*150*float64(i)/sampleRate))
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}
