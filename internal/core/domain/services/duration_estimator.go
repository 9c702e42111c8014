package services

import (
	"errors"
	"math"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/timerecord"
)

// ErrInsufficientTrainingData is returned by Recompute when a segment key has
// fewer usable records than the minimum training population. The caller keeps
// whatever estimate (or static baseline) it already has.
var ErrInsufficientTrainingData = errors.New("insufficient training data")

// Tuning constants for the adaptive duration model.
const (
	// minTrainingSamples is the smallest population Recompute will learn from.
	minTrainingSamples = 5

	// recentWindowDays splits the training population into recent and
	// historical partitions.
	recentWindowDays = 30

	// recentWeight and historicalWeight blend the two partition averages.
	recentWeight     = 0.6
	historicalWeight = 0.4

	// travelReferenceSamples and operationReferenceSamples are the population
	// sizes at which the sample term of the confidence score saturates.
	travelReferenceSamples    = 50
	operationReferenceSamples = 30

	// maxLearnedAge and minLearnedConfidence gate Predict's use of a learned
	// estimate over the static baseline.
	maxLearnedAge        = 7 * 24 * time.Hour
	minLearnedConfidence = 70

	// defaultPeakMultiplier inflates baseline predictions during peak traffic.
	defaultPeakMultiplier = 1.25
)

// PredictionSource tells the caller where a predicted duration came from.
type PredictionSource string

const (
	// SourceLearned means a fresh, confident model estimate was used.
	SourceLearned PredictionSource = "learned"

	// SourceBaseline means the static per-segment baseline was used.
	SourceBaseline PredictionSource = "baseline"

	// SourceBaselinePeak means the baseline was inflated by the peak-hour
	// multiplier.
	SourceBaselinePeak PredictionSource = "baseline_peak"
)

// Prediction is the answer to a duration lookup. Lookups never fail: when the
// model cannot help, the static baseline answers with zero confidence.
type Prediction struct {
	Minutes    int
	Confidence int
	Source     PredictionSource
}

// ClockWindow is a daily wall-clock interval, half-open, expressed in minutes
// from midnight.
type ClockWindow struct {
	StartMinute int
	EndMinute   int
}

// Contains reports whether the instant's wall-clock time falls in the window.
func (w ClockWindow) Contains(at time.Time) bool {
	minute := at.Hour()*60 + at.Minute()
	return minute >= w.StartMinute && minute < w.EndMinute
}

// defaultPeakWindows covers the morning and evening rush hours.
func defaultPeakWindows() []ClockWindow {
	return []ClockWindow{
		{StartMinute: 7 * 60, EndMinute: 9 * 60},
		{StartMinute: 17 * 60, EndMinute: 19 * 60},
	}
}

// DurationEstimator is the domain service behind adaptive duration
// prediction. It has two jobs:
//
//   - Recompute turns the accumulated records of one segment key into a
//     LearnedEstimate, blending a recent partition with the historical one and
//     scoring its own confidence.
//   - Predict answers a lookup, preferring a fresh and confident learned
//     estimate and falling back to the static baseline (peak-adjusted)
//     otherwise.
//
// The service is stateless; training data and learned estimates live in
// repositories and are passed in by the caller.
type DurationEstimator struct {
	peakWindows    []ClockWindow
	peakMultiplier float64
}

// NewDurationEstimator creates an estimator with the default peak windows
// (07:00-09:00 and 17:00-19:00) and multiplier.
func NewDurationEstimator() DurationEstimator {
	return DurationEstimator{
		peakWindows:    defaultPeakWindows(),
		peakMultiplier: defaultPeakMultiplier,
	}
}

// NewDurationEstimatorWithPeaks creates an estimator with custom peak
// windows. A non-positive multiplier falls back to the default.
func NewDurationEstimatorWithPeaks(windows []ClockWindow, multiplier float64) DurationEstimator {
	if multiplier <= 0 {
		multiplier = defaultPeakMultiplier
	}
	return DurationEstimator{
		peakWindows:    windows,
		peakMultiplier: multiplier,
	}
}

// Recompute trains a fresh LearnedEstimate for one segment key from its
// records.
//
// Parameters:
//   - key: the segment being trained
//   - records: every stored record for the key; outliers and records for
//     other keys are skipped here
//   - now: partition boundary reference and the estimate's update instant
//
// Returns ErrInsufficientTrainingData when fewer than the minimum usable
// records remain after filtering.
//
// The prediction is round(0.6*avg(recent) + 0.4*avg(historical)) where recent
// covers the last 30 days. When one partition is empty the other stands in
// for it. Confidence averages a sample-count term (saturating at the
// per-kind reference population) with a variability term derived from the
// recent partition's standard deviation.
func (e DurationEstimator) Recompute(
	key timerecord.SegmentKey,
	records []*timerecord.Record,
	now time.Time,
) (*timerecord.LearnedEstimate, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	cutoff := now.AddDate(0, 0, -recentWindowDays)

	var recent, historical []int
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if r.IsOutlier() || r.Key() != key {
			continue
		}
		if r.RecordedAt().After(cutoff) {
			recent = append(recent, r.ActualMinutes())
		} else {
			historical = append(historical, r.ActualMinutes())
		}
	}

	samples := len(recent) + len(historical)
	if samples < minTrainingSamples {
		return nil, ErrInsufficientTrainingData
	}

	recentAvg := mean(recent)
	historicalAvg := mean(historical)
	if len(recent) == 0 {
		recentAvg = historicalAvg
	}
	if len(historical) == 0 {
		historicalAvg = recentAvg
	}

	predicted := int(math.Round(recentWeight*recentAvg + historicalWeight*historicalAvg))
	if predicted < 1 {
		predicted = 1
	}

	confidence := e.scoreConfidence(key.Kind, samples, recent, historical, predicted)

	return timerecord.NewLearnedEstimate(key, predicted, confidence, samples, now)
}

// Predict answers a duration lookup for a segment.
//
// Parameters:
//   - learned: the stored model estimate for the segment, nil when none exists
//   - baselineMinutes: the static per-segment duration
//   - at: the instant the predicted activity would start, used for both the
//     freshness check and peak-hour detection
//
// A learned estimate is used only when it is at most seven days old and its
// confidence exceeds 70. Otherwise the baseline answers, inflated by the
// peak multiplier when the instant falls in a peak window.
func (e DurationEstimator) Predict(
	learned *timerecord.LearnedEstimate,
	baselineMinutes int,
	at time.Time,
) Prediction {
	if learned != nil && learned.Validate() == nil &&
		learned.Age(at) <= maxLearnedAge && learned.Confidence() > minLearnedConfidence {
		return Prediction{
			Minutes:    learned.PredictedMinutes(),
			Confidence: learned.Confidence(),
			Source:     SourceLearned,
		}
	}

	if baselineMinutes < 1 {
		baselineMinutes = 1
	}

	for _, w := range e.peakWindows {
		if w.Contains(at) {
			return Prediction{
				Minutes: int(math.Round(float64(baselineMinutes) * e.peakMultiplier)),
				Source:  SourceBaselinePeak,
			}
		}
	}

	return Prediction{
		Minutes: baselineMinutes,
		Source:  SourceBaseline,
	}
}

// scoreConfidence combines population size and spread into a 0-100 score.
func (e DurationEstimator) scoreConfidence(
	kind timerecord.Kind,
	samples int,
	recent, historical []int,
	predicted int,
) int {
	reference := travelReferenceSamples
	if kind == timerecord.KindOperation {
		reference = operationReferenceSamples
	}

	sampleTerm := 100.0 * float64(samples) / float64(reference)
	if sampleTerm > 100 {
		sampleTerm = 100
	}

	// Spread is measured over the recent partition; when it is empty the
	// historical one stands in, mirroring the blend.
	spreadSource := recent
	if len(spreadSource) == 0 {
		spreadSource = historical
	}
	variabilityTerm := 100.0 - 100.0*stddev(spreadSource)/float64(predicted)
	if variabilityTerm < 0 {
		variabilityTerm = 0
	}

	confidence := int(math.Round((sampleTerm + variabilityTerm) / 2))
	if confidence > 100 {
		confidence = 100
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func stddev(values []int) float64 {
	if len(values) < 2 {
		return 0
	}
	avg := mean(values)
	var acc float64
	for _, v := range values {
		d := float64(v) - avg
		acc += d * d
	}
	return math.Sqrt(acc / float64(len(values)))
}
