package model

// Indicators holds the computed technical indicator values for one symbol.
// Derived fresh per scan; the store keeps the latest snapshot per symbol
// per day.
type Indicators struct {
	RSI            float64
	MACD           float64
	MACDSignal     float64
	MACDHistogram  float64
	SMA20          float64
	SMA50          float64
	EMA12          float64
	EMA26          float64
	BollingerUpper float64
	BollingerLower float64
}
