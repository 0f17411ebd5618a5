package model

import "time"

// Quote is a normalized snapshot of one symbol from a quote provider.
// It is ephemeral: produced fresh or from cache per fetch, never persisted
// as its own entity.
type Quote struct {
	Symbol        string
	CurrentPrice  float64
	Open          float64
	High          float64
	Low           float64
	Volume        int64
	PreviousClose float64
	Change        float64
	ChangePercent float64
	Currency      string
	Source        string
	FetchedAt     time.Time
	FromCache     bool
	Simulated     bool
}

// Volatility returns the intraday high-low range as a percentage of the
// current price.
func (q *Quote) Volatility() float64 {
	if q.CurrentPrice <= 0 {
		return 0
	}
	return (q.High - q.Low) / q.CurrentPrice * 100
}
