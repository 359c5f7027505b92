// analyze-interview runs the analysis pipeline against local media files
// and prints the report as JSON, without touching the interview store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/ChandanDev27/Interview-backend/internal/analysis/facial"
	"github.com/ChandanDev27/Interview-backend/internal/analysis/speech"
	"github.com/ChandanDev27/Interview-backend/internal/clients"
	"github.com/ChandanDev27/Interview-backend/internal/config"
	"github.com/ChandanDev27/Interview-backend/internal/feedback"
	"github.com/ChandanDev27/Interview-backend/internal/media"
	"github.com/ChandanDev27/Interview-backend/internal/models"
	"github.com/ChandanDev27/Interview-backend/internal/storage"
)

func main() {
	videoPath := flag.String("video", "", "path to the interview video")
	audioPath := flag.String("audio", "", "optional path to a WAV audio track")
	level := flag.String("level", "advanced", "experience level: beginner or advanced")
	flag.Parse()

	if *videoPath == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze-interview -video <file> [-audio <file.wav>] [-level beginner|advanced]")
		os.Exit(2)
	}

	_ = godotenv.Load()
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	emotionURL := os.Getenv("EMOTION_SERVICE_URL")
	speechURL := os.Getenv("SPEECH_SERVICE_URL")
	if emotionURL == "" || speechURL == "" {
		log.Error("EMOTION_SERVICE_URL and SPEECH_SERVICE_URL must be set")
		os.Exit(1)
	}

	if err := run(*videoPath, *audioPath, models.ExperienceLevel(*level), emotionURL, speechURL, log); err != nil {
		log.Error("analysis failed", "error", err)
		os.Exit(1)
	}
}

func run(videoPath, audioPath string, level models.ExperienceLevel, emotionURL, speechURL string, log *slog.Logger) error {
	th := config.DefaultThresholds()
	ctx := context.Background()

	assets, err := storage.NewLocalStore("")
	if err != nil {
		return err
	}
	intake, err := media.NewIntake(assets, log, th.MinDurationSec)
	if err != nil {
		return err
	}

	video, err := os.Open(videoPath)
	if err != nil {
		return err
	}
	defer video.Close()

	var audio io.Reader
	if audioPath != "" {
		f, err := os.Open(audioPath)
		if err != nil {
			return err
		}
		defer f.Close()
		audio = f
	}

	videoAsset, audioAsset, err := intake.Ingest(ctx, video, audio)
	if err != nil {
		return err
	}
	defer assets.Remove(videoAsset.Path)
	defer assets.Remove(audioAsset.Path)

	extractor, err := facial.NewExtractor(clients.NewEmotionClient(emotionURL), log)
	if err != nil {
		return err
	}
	samples, err := extractor.Scan(ctx, videoAsset, th.SampleIntervalSec)
	if err != nil {
		return err
	}

	analyzer := speech.NewAnalyzer(clients.NewSpeechClient(speechURL), log)
	speechSummary, err := analyzer.Analyze(ctx, audioAsset, th)
	if err != nil {
		return err
	}

	facialSummary := facial.Aggregate(samples)
	payload := feedback.Synthesize(facialSummary, speechSummary, level, th)

	out := models.Report{
		FacialAnalysis: samples,
		FacialSummary:  facialSummary,
		SpeechAnalysis: speechSummary,
		Feedback:       payload,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
