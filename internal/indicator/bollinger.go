package indicator

import "math"

// Bands holds the Bollinger band levels.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Bollinger computes SMA(period) +/- k standard deviations over the
// last period closes. With a series shorter than the period the bands
// are synthesized as SMA x {1.02, 0.98}.
func Bollinger(prices []float64, period int, k float64) Bands {
	sma := SMA(prices, period)
	if len(prices) < period {
		return Bands{Upper: sma * 1.02, Middle: sma, Lower: sma * 0.98}
	}

	slice := prices[len(prices)-period:]
	variance := 0.0
	for _, p := range slice {
		variance += (p - sma) * (p - sma)
	}
	std := math.Sqrt(variance / float64(period))

	return Bands{
		Upper:  sma + k*std,
		Middle: sma,
		Lower:  sma - k*std,
	}
}
