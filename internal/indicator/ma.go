package indicator

// SMA computes the simple moving average of the last period closes.
// With fewer than period values it returns the mean of everything
// available instead of failing; callers have no secondary path.
func SMA(prices []float64, period int) float64 {
	if len(prices) == 0 || period <= 0 {
		return 0
	}
	if len(prices) < period {
		return mean(prices)
	}
	return mean(prices[len(prices)-period:])
}

// EMA computes the exponential moving average: seeded with the SMA of
// the first period values, then rolled forward with multiplier
// 2/(period+1). A series shorter than the period degrades to the plain
// mean.
func EMA(prices []float64, period int) float64 {
	if len(prices) == 0 || period <= 0 {
		return 0
	}
	if len(prices) < period {
		return mean(prices)
	}

	ema := mean(prices[:period])
	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
	}
	return ema
}

func mean(prices []float64) float64 {
	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices))
}
