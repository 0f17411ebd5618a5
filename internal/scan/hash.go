package scan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"BistRadar/internal/model"
)

// SignalHash derives the daily dedup key for a candidate. Two signals
// collide only when every price level, the timeframe and the calendar
// day match, so a changed entry or target on the same day is a new
// signal.
func SignalHash(c *model.Candidate, day time.Time) string {
	payload := fmt.Sprintf("%s|%s|%.2f|%.2f|%.2f|%s|%s",
		c.Symbol, c.Action,
		c.EntryPrice, c.TargetPrice, c.StopLoss,
		c.Timeframe, day.Format("2006-01-02"))
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// TrendSlope returns the percent change across a close series, oldest
// first. Fewer than two points or a zero start yields 0.
func TrendSlope(closes []float64) float64 {
	if len(closes) < 2 || closes[0] == 0 {
		return 0
	}
	return (closes[len(closes)-1] - closes[0]) / closes[0] * 100
}
