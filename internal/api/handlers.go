package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ChandanDev27/Interview-backend/internal/apperr"
	"github.com/ChandanDev27/Interview-backend/internal/models"
	"github.com/ChandanDev27/Interview-backend/internal/report"
)

// Runner executes one analysis pipeline run.
type Runner interface {
	Run(ctx context.Context, req report.Request) (*models.Report, error)
}

// History reads back persisted analysis runs.
type History interface {
	GetLatestAnalysis(ctx context.Context, interviewID, userID string) (*models.AnalysisLog, error)
}

type App struct {
	Runner        Runner
	History       History
	MaxUploadSize int64
	Log           *slog.Logger

	validate *validator.Validate
}

func NewApp(runner Runner, history History, maxUploadSize int64, log *slog.Logger) *App {
	return &App{
		Runner:        runner,
		History:       history,
		MaxUploadSize: maxUploadSize,
		Log:           log,
		validate:      validator.New(),
	}
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

type analyzeForm struct {
	UserID string `validate:"required"`
	Level  string `validate:"omitempty,oneof=beginner advanced"`
}

// AnalyzeHandler accepts the multipart upload (video required, WAV audio
// optional) and runs the full analysis pipeline synchronously.
func (app *App) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		app.writeError(w, apperr.E(apperr.KindInvalidIdentifier, "upload too large or malformed", err))
		return
	}

	form := analyzeForm{
		UserID: r.FormValue("user_id"),
		Level:  r.FormValue("experience_level"),
	}
	if err := app.validate.Struct(form); err != nil {
		app.writeError(w, apperr.E(apperr.KindInvalidIdentifier, "user_id required; experience_level must be beginner or advanced", err))
		return
	}

	video, _, err := r.FormFile("video")
	if err != nil {
		app.writeError(w, apperr.E(apperr.KindInvalidIdentifier, "video file is required", err))
		return
	}
	defer video.Close()

	audio := optionalFile(r, "audio")
	if audio != nil {
		defer audio.Close()
	}

	req := report.Request{
		InterviewID: chi.URLParam(r, "interviewID"),
		UserID:      form.UserID,
		Level:       models.ExperienceLevel(form.Level),
		Video:       video,
	}
	if audio != nil {
		req.Audio = audio
	}

	result, err := app.Runner.Run(r.Context(), req)
	if err != nil {
		app.writeError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, result)
}

// LatestAnalysisHandler returns the most recent persisted analysis for an
// interview and user.
func (app *App) LatestAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "interviewID")
	userID := r.URL.Query().Get("user_id")

	entry, err := app.History.GetLatestAnalysis(r.Context(), interviewID, userID)
	if err != nil {
		app.writeError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, entry)
}

func optionalFile(r *http.Request, field string) multipart.File {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil
	}
	return f
}

type errorBody struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

func (app *App) writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	if status >= http.StatusInternalServerError {
		app.Log.Error("request failed", "kind", kind, "error", err)
	} else {
		app.Log.Warn("request rejected", "kind", kind, "error", err)
	}
	app.writeJSON(w, status, map[string]errorBody{
		"error": {Kind: kind, Message: apperr.MessageOf(err)},
	})
}

func (app *App) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		app.Log.Error("response encoding failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"kind":"internal","message":"internal error"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
