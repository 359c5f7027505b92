// Package report joins the facial and speech analysis halves into one
// feedback report and persists it against the interview record.
package report

import (
	"context"
	"io"
	"log/slog"

	"github.com/ChandanDev27/Interview-backend/internal/analysis/facial"
	"github.com/ChandanDev27/Interview-backend/internal/apperr"
	"github.com/ChandanDev27/Interview-backend/internal/config"
	"github.com/ChandanDev27/Interview-backend/internal/database"
	"github.com/ChandanDev27/Interview-backend/internal/feedback"
	"github.com/ChandanDev27/Interview-backend/internal/models"
	"github.com/ChandanDev27/Interview-backend/internal/storage"
	"github.com/ChandanDev27/Interview-backend/internal/workers"
)

// Ingestor admits uploaded media and yields normalized temp assets.
type Ingestor interface {
	Ingest(ctx context.Context, video, audio io.Reader) (models.MediaAsset, models.MediaAsset, error)
}

// FacialScanner samples and classifies video frames.
type FacialScanner interface {
	Scan(ctx context.Context, video models.MediaAsset, intervalSec float64) ([]models.FrameSample, error)
}

// SpeechAnalyzer derives the speech summary from a normalized audio track.
type SpeechAnalyzer interface {
	Analyze(ctx context.Context, audio models.MediaAsset, th config.Thresholds) (models.SpeechSummary, error)
}

// Store is the persistence adapter the assembler writes completed runs to.
type Store interface {
	SaveAnalysis(ctx context.Context, interviewID, userID string, report *models.Report) error
}

// Request is one analysis run. Audio is optional; when nil the audio track
// is extracted from the video.
type Request struct {
	InterviewID string
	UserID      string
	Level       models.ExperienceLevel
	Video       io.Reader
	Audio       io.Reader
}

type Assembler struct {
	ingestor Ingestor
	facial   FacialScanner
	speech   SpeechAnalyzer
	store    Store
	assets   storage.Store
	pool     *workers.Pool
	log      *slog.Logger
	th       config.Thresholds
}

func NewAssembler(ingestor Ingestor, scanner FacialScanner, analyzer SpeechAnalyzer, store Store, assets storage.Store, pool *workers.Pool, log *slog.Logger, th config.Thresholds) *Assembler {
	return &Assembler{
		ingestor: ingestor,
		facial:   scanner,
		speech:   analyzer,
		store:    store,
		assets:   assets,
		pool:     pool,
		log:      log,
		th:       th,
	}
}

type facialResult struct {
	samples []models.FrameSample
	err     error
}

type speechResult struct {
	summary models.SpeechSummary
	err     error
}

// Run executes the full pipeline for one request: ingest, fan out the two
// analysis halves through the worker pool, join, synthesize and persist.
// Temp assets are deleted on every exit path. A persistence failure does
// not discard the computed report; it comes back with Persisted unset.
func (a *Assembler) Run(ctx context.Context, req Request) (*models.Report, error) {
	if err := database.ValidateIdentifiers(req.InterviewID, req.UserID); err != nil {
		return nil, err
	}

	video, audio, err := a.ingestor.Ingest(ctx, req.Video, req.Audio)
	if err != nil {
		return nil, err
	}
	defer a.cleanup(video, audio)

	facialCh := make(chan facialResult, 1)
	speechCh := make(chan speechResult, 1)

	go func() {
		var r facialResult
		err := a.pool.Do(ctx, func() error {
			r.samples, r.err = a.facial.Scan(ctx, video, a.th.SampleIntervalSec)
			return nil
		})
		if err != nil {
			r.err = err
		}
		facialCh <- r
	}()

	go func() {
		var r speechResult
		err := a.pool.Do(ctx, func() error {
			r.summary, r.err = a.speech.Analyze(ctx, audio, a.th)
			return nil
		})
		if err != nil {
			r.err = err
		}
		speechCh <- r
	}()

	fr := <-facialCh
	sr := <-speechCh

	if fr.err != nil {
		return nil, fr.err
	}
	if sr.err != nil {
		return nil, sr.err
	}

	facialSummary := facial.Aggregate(fr.samples)
	payload := feedback.Synthesize(facialSummary, sr.summary, req.Level, a.th)

	report := &models.Report{
		FacialAnalysis: fr.samples,
		FacialSummary:  facialSummary,
		SpeechAnalysis: sr.summary,
		Feedback:       payload,
		Persisted:      true,
	}

	if err := a.store.SaveAnalysis(ctx, req.InterviewID, req.UserID, report); err != nil {
		if apperr.KindOf(err) == apperr.KindInvalidIdentifier {
			return nil, err
		}
		a.log.Warn("analysis computed but not persisted",
			"interview_id", req.InterviewID, "user_id", req.UserID, "error", err)
		report.Persisted = false
	}

	return report, nil
}

func (a *Assembler) cleanup(assets ...models.MediaAsset) {
	for _, asset := range assets {
		if asset.Path == "" {
			continue
		}
		if err := a.assets.Remove(asset.Path); err != nil {
			a.log.Warn("temp asset not removed", "path", asset.Path, "error", err)
		}
	}
}
