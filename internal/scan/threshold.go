package scan

import "fmt"

// ThresholdProfile maps the recent win rate onto the minimum
// confidence a candidate needs to pass the pipeline. The buckets
// tighten the gate when results deteriorate and relax it when they
// improve.
type ThresholdProfile struct {
	MinResults int `yaml:"min_results"` // below this, Fallback applies
	Fallback   int `yaml:"fallback"`
	Poor       int `yaml:"poor"`   // win rate < 45%
	Weak       int `yaml:"weak"`   // win rate < 55%
	Fair       int `yaml:"fair"`   // win rate < 65%
	Strong     int `yaml:"strong"` // win rate >= 65%
}

// DefaultThresholdProfile is the stock tuning.
var DefaultThresholdProfile = ThresholdProfile{
	MinResults: 8,
	Fallback:   50,
	Poor:       60,
	Weak:       55,
	Fair:       50,
	Strong:     45,
}

// Validate rejects profiles where a better win rate would raise the
// bar. The buckets must not increase from Poor to Strong.
func (p ThresholdProfile) Validate() error {
	if p.MinResults < 0 {
		return fmt.Errorf("threshold min_results must not be negative, got %d", p.MinResults)
	}
	if p.Poor < p.Weak || p.Weak < p.Fair || p.Fair < p.Strong {
		return fmt.Errorf("threshold buckets must be non-increasing: poor=%d weak=%d fair=%d strong=%d",
			p.Poor, p.Weak, p.Fair, p.Strong)
	}
	return nil
}

// MinConfidence returns the gate for a run given the operator's recent
// trade result counts.
func (p ThresholdProfile) MinConfidence(total, wins int) int {
	if total < p.MinResults {
		return p.Fallback
	}
	winRate := float64(wins) / float64(total) * 100
	switch {
	case winRate < 45:
		return p.Poor
	case winRate < 55:
		return p.Weak
	case winRate < 65:
		return p.Fair
	default:
		return p.Strong
	}
}
