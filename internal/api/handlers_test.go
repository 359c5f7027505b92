package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ChandanDev27/Interview-backend/internal/apperr"
	"github.com/ChandanDev27/Interview-backend/internal/models"
	"github.com/ChandanDev27/Interview-backend/internal/report"
)

const testInterviewID = "64a1f0b2c3d4e5f601234567"

type fakeRunner struct {
	report *models.Report
	err    error
	last   report.Request
}

func (f *fakeRunner) Run(ctx context.Context, req report.Request) (*models.Report, error) {
	f.last = req
	return f.report, f.err
}

type fakeHistory struct {
	entry *models.AnalysisLog
	err   error
}

func (f *fakeHistory) GetLatestAnalysis(ctx context.Context, interviewID, userID string) (*models.AnalysisLog, error) {
	return f.entry, f.err
}

func newTestApp(runner *fakeRunner, history *fakeHistory) *App {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewApp(runner, history, 10<<20, log)
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatal(err)
		}
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile(name, name+".bin")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func postAnalysis(t *testing.T, app *App, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields, files)
	req := httptest.NewRequest(http.MethodPost, "/api/interviews/"+testInterviewID+"/analysis", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	NewRouter(app).ServeHTTP(rec, req)
	return rec
}

func decodeErrorKind(t *testing.T, body io.Reader) string {
	t.Helper()

	var payload struct {
		Error struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		t.Fatalf("error body is not valid JSON: %v", err)
	}
	if payload.Error.Message == "" {
		t.Error("error body missing message")
	}
	return payload.Error.Kind
}

func TestAnalyzeHandlerSuccess(t *testing.T) {
	runner := &fakeRunner{report: &models.Report{
		FacialAnalysis: []models.FrameSample{{OffsetSec: 0, Emotion: "happy"}},
		FacialSummary:  models.FacialSummary{Percentages: map[string]float64{"happy": 100}},
		SpeechAnalysis: models.SpeechSummary{Transcript: "hello"},
		Feedback:       models.FeedbackPayload{Suggestions: []string{"Great job!"}},
		Persisted:      true,
	}}
	app := newTestApp(runner, &fakeHistory{})

	rec := postAnalysis(t, app,
		map[string]string{"user_id": "user-1", "experience_level": "beginner"},
		map[string][]byte{"video": []byte("video-bytes")})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	for _, field := range []string{"facial_analysis", "facial_summary", "speech_analysis", "feedback_for_candidate", "persisted"} {
		if _, ok := got[field]; !ok {
			t.Errorf("response missing %q", field)
		}
	}

	if runner.last.InterviewID != testInterviewID {
		t.Errorf("interview id = %q", runner.last.InterviewID)
	}
	if runner.last.Level != models.LevelBeginner {
		t.Errorf("level = %q, want beginner", runner.last.Level)
	}
	if runner.last.Audio != nil {
		t.Error("audio should be nil when not uploaded")
	}
}

func TestAnalyzeHandlerRequiresUserID(t *testing.T) {
	app := newTestApp(&fakeRunner{}, &fakeHistory{})

	rec := postAnalysis(t, app, nil, map[string][]byte{"video": []byte("v")})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if kind := decodeErrorKind(t, rec.Body); kind != string(apperr.KindInvalidIdentifier) {
		t.Errorf("kind = %q", kind)
	}
}

func TestAnalyzeHandlerRejectsUnknownLevel(t *testing.T) {
	app := newTestApp(&fakeRunner{}, &fakeHistory{})

	rec := postAnalysis(t, app,
		map[string]string{"user_id": "user-1", "experience_level": "wizard"},
		map[string][]byte{"video": []byte("v")})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeHandlerRequiresVideo(t *testing.T) {
	app := newTestApp(&fakeRunner{}, &fakeHistory{})

	rec := postAnalysis(t, app, map[string]string{"user_id": "user-1"}, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeHandlerMapsKindsToStatus(t *testing.T) {
	tests := []struct {
		kind       apperr.Kind
		wantStatus int
	}{
		{apperr.KindUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{apperr.KindMediaTooShort, http.StatusBadRequest},
		{apperr.KindSpeechServiceUnavailable, http.StatusBadGateway},
		{apperr.KindPersistence, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			runner := &fakeRunner{err: apperr.E(tt.kind, "nope", nil)}
			app := newTestApp(runner, &fakeHistory{})

			rec := postAnalysis(t, app,
				map[string]string{"user_id": "user-1"},
				map[string][]byte{"video": []byte("v")})

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if kind := decodeErrorKind(t, rec.Body); kind != string(tt.kind) {
				t.Errorf("kind = %q, want %q", kind, tt.kind)
			}
		})
	}
}

func TestAnalyzeHandlerHidesInternalDetail(t *testing.T) {
	runner := &fakeRunner{err: io.ErrUnexpectedEOF}
	app := newTestApp(runner, &fakeHistory{})

	rec := postAnalysis(t, app,
		map[string]string{"user_id": "user-1"},
		map[string][]byte{"video": []byte("v")})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("unexpected EOF")) {
		t.Error("internal error detail leaked to the client")
	}
}

func TestLatestAnalysisHandler(t *testing.T) {
	history := &fakeHistory{entry: &models.AnalysisLog{
		InterviewID: testInterviewID,
		UserID:      "user-1",
	}}
	app := newTestApp(&fakeRunner{}, history)

	req := httptest.NewRequest(http.MethodGet, "/api/interviews/"+testInterviewID+"/analysis?user_id=user-1", nil)
	rec := httptest.NewRecorder()
	NewRouter(app).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestLatestAnalysisHandlerNotFound(t *testing.T) {
	history := &fakeHistory{err: apperr.E(apperr.KindNotFound, "no analysis recorded for this interview", nil)}
	app := newTestApp(&fakeRunner{}, history)

	req := httptest.NewRequest(http.MethodGet, "/api/interviews/"+testInterviewID+"/analysis?user_id=user-1", nil)
	rec := httptest.NewRecorder()
	NewRouter(app).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPing(t *testing.T) {
	app := newTestApp(&fakeRunner{}, &fakeHistory{})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	NewRouter(app).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}
