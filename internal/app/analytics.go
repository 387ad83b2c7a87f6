package service

import (
	"context"
	"fmt"

	"github.com/BrainTwoPoint0/nexus-sub002/pkg/metrics"
)

// Quality bands over the overall score.
const (
	highQualityThreshold = 80
	goodThreshold        = 60
)

// AnalyticsSummary aggregates stored scores over a time window.
type AnalyticsSummary struct {
	// Total is the number of scores in the window.
	Total int `json:"total"`

	// MeanScore is the average overall score, 0 when the window is empty.
	MeanScore float64 `json:"mean_score"`

	// HighQuality counts scores of 80 and above.
	HighQuality int `json:"high_quality"`

	// Good counts scores of 60 and above.
	Good int `json:"good"`
}

// Analytics summarizes scores calculated in the last windowDays days.
// A non-positive windowDays falls back to the configured default.
func (s *Service) Analytics(ctx context.Context, windowDays int) (AnalyticsSummary, error) {
	if err := s.requireStarted(); err != nil {
		return AnalyticsSummary{}, err
	}

	if windowDays <= 0 {
		windowDays = s.analyticsWindowDays
	}

	to := s.now().UTC()
	from := to.AddDate(0, 0, -windowDays)

	scores, err := s.store.ListInWindow(ctx, from, to)
	if err != nil {
		return AnalyticsSummary{}, fmt.Errorf("list scores in window: %w", err)
	}
	metrics.RecordAnalyticsQuery()

	summary := AnalyticsSummary{Total: len(scores)}
	if summary.Total == 0 {
		return summary, nil
	}

	sum := 0
	for _, score := range scores {
		sum += score.OverallScore
		if score.OverallScore >= highQualityThreshold {
			summary.HighQuality++
		}
		if score.OverallScore >= goodThreshold {
			summary.Good++
		}
	}
	summary.MeanScore = float64(sum) / float64(summary.Total)

	return summary, nil
}
