package speech

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/wav"

	"github.com/ChandanDev27/Interview-backend/internal/models"
)

// Pitch search range for voiced speech, in Hz.
const (
	minPitchHz = 60
	maxPitchHz = 400
)

// frameDurationSec is the analysis window for energy and pitch tracking.
const frameDurationSec = 0.03

// prosody holds the signal-level speech measurements.
type prosody struct {
	meanPitchHz float64
	voicedRatio float64
	clarity     float64
	durationSec float64
}

// loadWAV decodes a PCM WAV file into normalized [-1, 1] samples. The
// normalizer guarantees mono 16-bit input, but multi-channel files are
// folded down rather than rejected.
func loadWAV(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decoding wav: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, 0, fmt.Errorf("wav contains no samples")
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	scale := math.Pow(2, float64(buf.SourceBitDepth-1))
	if scale == 0 {
		scale = 1 << 15
	}

	samples := make([]float64, 0, len(buf.Data)/channels)
	for i := 0; i+channels <= len(buf.Data); i += channels {
		var v float64
		for c := 0; c < channels; c++ {
			v += float64(buf.Data[i+c])
		}
		samples = append(samples, v/float64(channels)/scale)
	}

	return samples, buf.Format.SampleRate, nil
}

// measureProsody derives pitch, voicing and clarity from raw samples.
func measureProsody(samples []float64, sampleRate int) prosody {
	if len(samples) == 0 || sampleRate <= 0 {
		return prosody{}
	}

	frameLen := int(float64(sampleRate) * frameDurationSec)
	if frameLen < 2 {
		frameLen = 2
	}

	var meanSq float64
	for _, s := range samples {
		meanSq += s * s
	}
	meanSq /= float64(len(samples))

	var energies []float64
	var pitches []float64
	voiced := 0

	for start := 0; start+frameLen <= len(samples); start += frameLen {
		frame := samples[start : start+frameLen]

		var e float64
		for _, s := range frame {
			e += s * s
		}
		e /= float64(frameLen)
		energies = append(energies, e)

		// A frame well above the track's average energy is treated as
		// voiced and eligible for pitch estimation.
		if e < meanSq*0.5 {
			continue
		}
		voiced++
		if p, ok := estimatePitch(frame, sampleRate); ok {
			pitches = append(pitches, p)
		}
	}

	var meanPitch float64
	if len(pitches) > 0 {
		for _, p := range pitches {
			meanPitch += p
		}
		meanPitch /= float64(len(pitches))
	}

	var voicedRatio float64
	if len(energies) > 0 {
		voicedRatio = float64(voiced) / float64(len(energies))
	}

	return prosody{
		meanPitchHz: meanPitch,
		voicedRatio: voicedRatio,
		clarity:     clarityScore(meanSq, energies),
		durationSec: float64(len(samples)) / float64(sampleRate),
	}
}

// estimatePitch runs normalized autocorrelation over the voiced pitch
// range. Returns false when no credible periodicity is found.
func estimatePitch(frame []float64, sampleRate int) (float64, bool) {
	minLag := sampleRate / maxPitchHz
	maxLag := sampleRate / minPitchHz
	if maxLag >= len(frame) {
		maxLag = len(frame) - 1
	}
	if minLag < 1 || minLag >= maxLag {
		return 0, false
	}

	var energy float64
	for _, s := range frame {
		energy += s * s
	}
	if energy == 0 {
		return 0, false
	}

	bestLag, bestCorr := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64
		for i := 0; i+lag < len(frame); i++ {
			corr += frame[i] * frame[i+lag]
		}
		corr /= energy
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr < 0.3 {
		return 0, false
	}
	return float64(sampleRate) / float64(bestLag), true
}

// clarityScore maps a signal-to-noise estimate (mean squared energy over
// frame-energy variance, log-scaled) onto 0-10.
func clarityScore(meanSq float64, energies []float64) float64 {
	if len(energies) == 0 || meanSq == 0 {
		return 0
	}

	var mean float64
	for _, e := range energies {
		mean += e
	}
	mean /= float64(len(energies))

	var variance float64
	for _, e := range energies {
		variance += (e - mean) * (e - mean)
	}
	variance /= float64(len(energies))

	const eps = 1e-12
	ratio := meanSq / (math.Sqrt(variance) + eps)

	score := 10 * math.Log10(1+ratio) / 3
	return math.Min(10, math.Max(0, score))
}

// classifyPitch buckets mean voiced pitch into the fixed intonation
// taxonomy. Tracks with no voiced pitch default to moderate.
func classifyPitch(meanPitchHz, lowHz, highHz float64) string {
	switch {
	case meanPitchHz == 0:
		return models.IntonationModerate
	case meanPitchHz < lowHz:
		return models.IntonationLow
	case meanPitchHz > highHz:
		return models.IntonationHigh
	default:
		return models.IntonationModerate
	}
}
