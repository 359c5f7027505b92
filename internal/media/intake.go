package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ChandanDev27/Interview-backend/internal/apperr"
	"github.com/ChandanDev27/Interview-backend/internal/models"
	"github.com/ChandanDev27/Interview-backend/internal/storage"
)

// sniffLen is how many leading bytes are inspected for container detection.
const sniffLen = 3072

// Container whitelist. Detection is content-based; client headers are not
// trusted.
var videoExts = map[string]string{
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
}

var audioExts = map[string]string{
	"audio/wav":   ".wav",
	"audio/x-wav": ".wav",
}

// Intake validates uploaded media, derives a normalized audio track when
// none is supplied, and measures durations. The assets it returns are
// temporary files owned by the calling request.
type Intake struct {
	ffmpegPath  string
	ffprobePath string
	store       storage.Store
	log         *slog.Logger
	minDuration float64
}

func NewIntake(store storage.Store, log *slog.Logger, minDurationSec float64) (*Intake, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	// ffprobe is optional; duration falls back to parsing ffmpeg output.
	ffprobePath, _ := exec.LookPath("ffprobe")

	return &Intake{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		store:       store,
		log:         log,
		minDuration: minDurationSec,
	}, nil
}

// Ingest validates and stores the uploaded video and, when audio is nil,
// extracts a mono 16 kHz 16-bit PCM WAV track from it. Validation failures
// are reported before any temp file is created; failures after that point
// remove whatever was already written.
func (in *Intake) Ingest(ctx context.Context, video, audio io.Reader) (models.MediaAsset, models.MediaAsset, error) {
	var none models.MediaAsset

	videoType, videoStream, err := sniff(video)
	if err != nil {
		return none, none, apperr.E(apperr.KindUnsupportedMediaType, "unreadable video payload", err)
	}
	videoExt, ok := videoExts[videoType]
	if !ok {
		return none, none, apperr.E(apperr.KindUnsupportedMediaType,
			fmt.Sprintf("video container %s is not supported", videoType), nil)
	}

	var audioStream io.Reader
	if audio != nil {
		audioType, stream, err := sniff(audio)
		if err != nil {
			return none, none, apperr.E(apperr.KindUnsupportedMediaType, "unreadable audio payload", err)
		}
		if _, ok := audioExts[audioType]; !ok {
			return none, none, apperr.E(apperr.KindUnsupportedMediaType,
				fmt.Sprintf("audio container %s is not supported, expected WAV", audioType), nil)
		}
		audioStream = stream
	}

	videoPath, err := in.store.Save(videoStream, videoExt)
	if err != nil {
		return none, none, fmt.Errorf("storing video: %w", err)
	}

	cleanup := []string{videoPath}
	fail := func(e error) (models.MediaAsset, models.MediaAsset, error) {
		for _, p := range cleanup {
			if rmErr := in.store.Remove(p); rmErr != nil {
				in.log.Warn("intake cleanup failed", "path", p, "error", rmErr)
			}
		}
		return none, none, e
	}

	duration, err := in.probeDuration(ctx, videoPath)
	if err != nil {
		return fail(apperr.E(apperr.KindMediaOpenError, "video stream cannot be decoded", err))
	}
	if duration < in.minDuration {
		return fail(apperr.E(apperr.KindMediaTooShort,
			fmt.Sprintf("media duration %.1fs is below the %.1fs minimum", duration, in.minDuration), nil))
	}

	var audioPath string
	var audioDuration float64
	if audioStream != nil {
		audioPath, err = in.store.Save(audioStream, ".wav")
		if err != nil {
			return fail(fmt.Errorf("storing audio: %w", err))
		}
		cleanup = append(cleanup, audioPath)

		audioDuration, err = in.probeDuration(ctx, audioPath)
		if err != nil {
			return fail(apperr.E(apperr.KindMediaOpenError, "audio stream cannot be decoded", err))
		}
	} else {
		audioPath = in.store.NewPath(".wav")
		cleanup = append(cleanup, audioPath)
		if err := in.extractAudio(ctx, videoPath, audioPath); err != nil {
			return fail(err)
		}
		audioDuration = duration
	}

	videoAsset := models.MediaAsset{
		Path:        videoPath,
		ContentType: videoType,
		DurationSec: duration,
		Kind:        models.TrackVideo,
	}
	audioAsset := models.MediaAsset{
		Path:        audioPath,
		ContentType: "audio/wav",
		DurationSec: audioDuration,
		Kind:        models.TrackAudio,
	}
	return videoAsset, audioAsset, nil
}

// sniff detects the content type from the leading bytes and returns a
// reader that replays them.
func sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, err
	}
	head = head[:n]
	mtype := mimetype.Detect(head)
	return mtype.String(), io.MultiReader(bytes.NewReader(head), r), nil
}

// extractAudio derives the normalized speech track: mono, 16 kHz, 16-bit
// PCM WAV.
func (in *Intake) extractAudio(ctx context.Context, videoPath, audioPath string) error {
	args := []string{
		"-y",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		audioPath,
	}

	cmd := exec.CommandContext(ctx, in.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		in.log.Warn("ffmpeg audio extraction failed", "error", err, "stderr", stderr.String())
		return apperr.E(apperr.KindAudioExtractionFailed, "could not extract audio track from video", err)
	}

	info, err := os.Stat(audioPath)
	if err != nil || info.Size() == 0 {
		return apperr.E(apperr.KindAudioExtractionFailed, "audio extraction produced no output", err)
	}
	return nil
}

func (in *Intake) probeDuration(ctx context.Context, path string) (float64, error) {
	if in.ffprobePath != "" {
		cmd := exec.CommandContext(ctx, in.ffprobePath,
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1:nokey=1",
			path)

		var stdout bytes.Buffer
		cmd.Stdout = &stdout

		if err := cmd.Run(); err == nil {
			if d, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64); err == nil && d > 0 {
				return d, nil
			}
		}
	}

	// Fallback: parse the Duration line from ffmpeg's stderr.
	cmd := exec.CommandContext(ctx, in.ffmpegPath, "-i", path, "-f", "null", "-")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	_ = cmd.Run()

	return parseClockDuration(stderr.String())
}

// parseClockDuration extracts "Duration: HH:MM:SS.cc," from ffmpeg output.
func parseClockDuration(output string) (float64, error) {
	const prefix = "Duration: "
	start := strings.Index(output, prefix)
	if start == -1 {
		return 0, fmt.Errorf("duration not found in ffmpeg output")
	}
	start += len(prefix)

	end := strings.Index(output[start:], ",")
	if end == -1 {
		return 0, fmt.Errorf("invalid duration format")
	}

	parts := strings.Split(output[start:start+end], ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration format: %s", output[start:start+end])
	}

	var total float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration component %q", p)
		}
		total = total*60 + v
	}
	return total, nil
}
