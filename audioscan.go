package lattice

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gopxl/beep/wav"
)

// Band split cutoffs in Hz.
const (
	bassCutoff = 250.0
	midCutoff  = 2000.0
)

// Tempo search range in BPM.
const (
	minBPM = 30.0
	maxBPM = 240.0
)

// AnalyzeWAV decodes a WAV file and computes per-frame audio features at the
// given composition frame rate. The result feeds EvalOptions.Audio.
func AnalyzeWAV(path string, frameRate float64) (*AudioAnalysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("analyze wav: %w", err)
	}
	defer f.Close()
	return AnalyzeWAVReader(f, frameRate)
}

// AnalyzeWAVReader analyzes WAV data from a reader. Stereo input is mixed
// down to mono before feature extraction.
func AnalyzeWAVReader(r io.ReadSeeker, frameRate float64) (*AudioAnalysis, error) {
	stream, format, err := wav.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("analyze wav: %w", err)
	}
	defer stream.Close()

	mono := make([]float64, 0, stream.Len())
	buf := make([][2]float64, 2048)
	for {
		n, ok := stream.Stream(buf)
		for i := 0; i < n; i++ {
			mono = append(mono, (buf[i][0]+buf[i][1])/2)
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("analyze wav: %w", err)
	}
	return AnalyzeSamples(mono, float64(format.SampleRate), frameRate), nil
}

// AnalyzeSamples computes per-frame features from mono PCM in [-1, 1]. The
// analysis is deterministic: the same samples at the same rates always yield
// the same arrays. Feature arrays are normalized to the clip's own peak, so
// a quiet clip still spans [0, 1].
func AnalyzeSamples(samples []float64, sampleRate, frameRate float64) *AudioAnalysis {
	a := &AudioAnalysis{FrameRate: frameRate}
	if len(samples) == 0 || sampleRate <= 0 || frameRate <= 0 {
		return a
	}

	perFrame := sampleRate / frameRate
	frames := int(math.Ceil(float64(len(samples)) / perFrame))

	a.Amplitude = make([]float64, frames)
	a.RMS = make([]float64, frames)
	a.Bass = make([]float64, frames)
	a.Mid = make([]float64, frames)
	a.High = make([]float64, frames)
	a.Centroid = make([]float64, frames)

	// One-pole low-pass state carries across window boundaries so band
	// energy is continuous.
	alphaBass := onePoleAlpha(bassCutoff, sampleRate)
	alphaMid := onePoleAlpha(midCutoff, sampleRate)
	var lpBass, lpMid float64

	for fi := 0; fi < frames; fi++ {
		start := int(float64(fi) * perFrame)
		end := int(float64(fi+1) * perFrame)
		if end > len(samples) {
			end = len(samples)
		}
		if start >= end {
			break
		}

		var peak, sumSq, bassSq, midSq, highSq float64
		var crossings int
		prev := samples[start]
		for i := start; i < end; i++ {
			s := samples[i]
			if abs := math.Abs(s); abs > peak {
				peak = abs
			}
			sumSq += s * s

			lpBass += alphaBass * (s - lpBass)
			lpMid += alphaMid * (s - lpMid)
			low := lpBass
			mid := lpMid - lpBass
			high := s - lpMid
			bassSq += low * low
			midSq += mid * mid
			highSq += high * high

			if (s >= 0) != (prev >= 0) {
				crossings++
			}
			prev = s
		}

		n := float64(end - start)
		a.Amplitude[fi] = peak
		a.RMS[fi] = math.Sqrt(sumSq / n)
		a.Bass[fi] = math.Sqrt(bassSq / n)
		a.Mid[fi] = math.Sqrt(midSq / n)
		a.High[fi] = math.Sqrt(highSq / n)
		// Zero-crossing rate stands in for spectral brightness; the
		// per-sample rate is already normalized to Nyquist.
		a.Centroid[fi] = clamp01(float64(crossings) / n)
	}

	normalizePeak(a.Amplitude)
	normalizePeak(a.RMS)
	normalizePeak(a.Bass)
	normalizePeak(a.Mid)
	normalizePeak(a.High)

	flux := onsetStrength(a.RMS)
	a.Onset = thresholdOnsets(flux)
	a.BPM, a.Beat = detectTempo(flux, frameRate)
	return a
}

func onePoleAlpha(cutoff, sampleRate float64) float64 {
	rc := 1 / (2 * math.Pi * cutoff)
	dt := 1 / sampleRate
	return dt / (rc + dt)
}

// normalizePeak scales a feature array so its maximum is 1. Silent arrays
// are left at zero.
func normalizePeak(values []float64) {
	var peak float64
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		return
	}
	for i := range values {
		values[i] /= peak
	}
}

// onsetStrength is the positive first difference of the loudness envelope,
// the spectral-flux stand-in driving both onset flags and tempo detection.
func onsetStrength(rms []float64) []float64 {
	flux := make([]float64, len(rms))
	for i := 1; i < len(rms); i++ {
		if d := rms[i] - rms[i-1]; d > 0 {
			flux[i] = d
		}
	}
	return flux
}

// thresholdOnsets flags frames whose onset strength rises more than 1.5
// standard deviations above the mean.
func thresholdOnsets(flux []float64) []bool {
	onsets := make([]bool, len(flux))
	if len(flux) == 0 {
		return onsets
	}
	var mean float64
	for _, v := range flux {
		mean += v
	}
	mean /= float64(len(flux))
	var variance float64
	for _, v := range flux {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(flux))
	threshold := mean + 1.5*math.Sqrt(variance)
	if threshold <= 0 {
		return onsets
	}
	for i, v := range flux {
		onsets[i] = v > threshold
	}
	return onsets
}

// detectTempo autocorrelates the onset strength over the plausible lag range
// and lays a beat grid at the winning period's best phase. Flat material
// yields BPM 0 and no beats.
func detectTempo(flux []float64, frameRate float64) (float64, []bool) {
	beats := make([]bool, len(flux))

	minLag := int(math.Round(frameRate * 60 / maxBPM))
	maxLag := int(math.Round(frameRate * 60 / minBPM))
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(flux) {
		maxLag = len(flux) - 1
	}
	if maxLag < minLag {
		return 0, beats
	}

	var mean float64
	for _, v := range flux {
		mean += v
	}
	mean /= float64(len(flux))

	bestLag, bestScore := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var score float64
		for i := lag; i < len(flux); i++ {
			score += (flux[i] - mean) * (flux[i-lag] - mean)
		}
		score /= float64(len(flux) - lag)
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}
	if bestLag == 0 || bestScore <= 0 {
		return 0, beats
	}

	bestPhase, bestSum := 0, -1.0
	for phase := 0; phase < bestLag; phase++ {
		var sum float64
		for i := phase; i < len(flux); i += bestLag {
			sum += flux[i]
		}
		if sum > bestSum {
			bestSum = sum
			bestPhase = phase
		}
	}
	for i := bestPhase; i < len(beats); i += bestLag {
		beats[i] = true
	}
	return 60 * frameRate / float64(bestLag), beats
}
