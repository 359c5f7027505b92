package facial

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/ChandanDev27/Interview-backend/internal/apperr"
	"github.com/ChandanDev27/Interview-backend/internal/clients"
	"github.com/ChandanDev27/Interview-backend/internal/models"
)

// Extractor samples video frames at a fixed cadence and classifies the
// dominant emotion per sampled frame. It keeps no per-request state; the
// classifier is a shared read-only singleton.
type Extractor struct {
	ffmpegPath string
	classifier clients.EmotionClassifier
	log        *slog.Logger

	// grab is swapped in tests; production uses ffmpeg.
	grab func(ctx context.Context, videoPath string, offsetSec float64) ([]byte, error)
}

func NewExtractor(classifier clients.EmotionClassifier, log *slog.Logger) (*Extractor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	e := &Extractor{
		ffmpegPath: ffmpegPath,
		classifier: classifier,
		log:        log,
	}
	e.grab = e.grabFrame
	return e, nil
}

// Scan decodes one frame per sampling interval and classifies it. A frame
// that fails to decode or classify is recorded as a sentinel sample with
// the error label; a single bad frame never aborts the scan. Offsets in
// the returned sequence are strictly non-decreasing.
func (e *Extractor) Scan(ctx context.Context, video models.MediaAsset, intervalSec float64) ([]models.FrameSample, error) {
	if intervalSec <= 0 {
		intervalSec = 1
	}
	if _, err := os.Stat(video.Path); err != nil {
		return nil, apperr.E(apperr.KindMediaOpenError, "video file not accessible", err)
	}
	if video.DurationSec <= 0 {
		return nil, apperr.E(apperr.KindMediaOpenError, "video stream cannot be decoded", nil)
	}

	samples := make([]models.FrameSample, 0, int(video.DurationSec/intervalSec)+1)
	for offset := 0.0; offset < video.DurationSec; offset += intervalSec {
		samples = append(samples, e.sampleAt(ctx, video.Path, offset))
	}
	return samples, nil
}

func (e *Extractor) sampleAt(ctx context.Context, videoPath string, offset float64) models.FrameSample {
	frame, err := e.grab(ctx, videoPath, offset)
	if err != nil {
		e.log.Warn("frame decode failed", "offset", offset, "error", err)
		return errorSample(offset)
	}

	result, err := e.classifier.ClassifyFrame(ctx, frame)
	if err != nil {
		e.log.Warn("frame classification failed", "offset", offset,
			"error", apperr.E(apperr.KindFrameClassification, "classifier rejected frame", err))
		return errorSample(offset)
	}

	return models.FrameSample{
		OffsetSec: offset,
		Emotion:   result.DominantEmotion,
		Scores:    result.ScoreMap(),
	}
}

func errorSample(offset float64) models.FrameSample {
	return models.FrameSample{OffsetSec: offset, Emotion: models.EmotionError}
}

// grabFrame decodes a single JPEG frame at the given offset.
func (e *Extractor) grabFrame(ctx context.Context, videoPath string, offsetSec float64) ([]byte, error) {
	args := []string{
		"-ss", fmt.Sprintf("%.2f", offsetSec),
		"-i", videoPath,
		"-vframes", "1",
		"-q:v", "2",
		"-f", "mjpeg",
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("decoding frame at %.2fs: %w (%s)", offsetSec, err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("no frame data at %.2fs", offsetSec)
	}
	return stdout.Bytes(), nil
}
