package analyze

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"BistRadar/internal/indicator"
	"BistRadar/internal/model"
)

// Engine converts a live quote plus price history into a scored
// candidate. With at least MinHistory daily closes it runs the
// indicator-based advanced mode; otherwise it degrades to the
// quote-only basic mode.
type Engine struct {
	rng *rand.Rand
}

// MinHistory is the minimum number of stored closes required for
// advanced scoring.
const MinHistory = 14

// NewEngine creates an engine. rng feeds the basic-mode jitter and
// profit randomization and is injectable so tests can pin it.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rng: rng}
}

// Analyze scores one symbol. closes is the stored daily close series,
// oldest first; the live price is appended before indicator
// computation.
func (e *Engine) Analyze(q *model.Quote, name string, closes []float64) *model.Candidate {
	if len(closes) < MinHistory {
		return e.analyzeBasic(q, name)
	}
	series := make([]float64, 0, len(closes)+1)
	series = append(series, closes...)
	series = append(series, q.CurrentPrice)

	macd := indicator.MACD(series)
	bands := indicator.Bollinger(series, 20, 2)
	return e.AdvancedFromIndicators(q, name, &model.Indicators{
		RSI:            indicator.RSI(series, 14),
		MACD:           macd.MACD,
		MACDSignal:     macd.Signal,
		MACDHistogram:  macd.Histogram,
		SMA20:          indicator.SMA(series, 20),
		SMA50:          indicator.SMA(series, 50),
		EMA12:          macd.EMA12,
		EMA26:          macd.EMA26,
		BollingerUpper: bands.Upper,
		BollingerLower: bands.Lower,
	})
}

// AdvancedFromIndicators applies the additive indicator scoring to a
// quote and precomputed indicator values. The confidence score starts
// at 50 and is clamped to [30,95].
func (e *Engine) AdvancedFromIndicators(q *model.Quote, name string, ind *model.Indicators) *model.Candidate {
	price := q.CurrentPrice

	score := 50.0

	switch {
	case ind.RSI < 30:
		score += 20 // oversold
	case ind.RSI > 70:
		score -= 15 // overbought
	case ind.RSI >= 40 && ind.RSI <= 60:
		score += 10 // neutral band, stable
	}

	if ind.MACDHistogram > 0 {
		score += 15
	} else {
		score -= 10
	}

	if price > ind.SMA20 && ind.SMA20 > ind.SMA50 {
		score += 15
	} else if price > ind.SMA20 {
		score += 8
	}

	if price < ind.BollingerLower {
		score += 12
	} else if price > ind.BollingerUpper {
		score -= 8
	}

	if q.Volume > 5_000_000 {
		score += 8
	}

	if q.ChangePercent > 2 {
		score += 10
	} else if q.ChangePercent < -2 {
		score -= 10
	}

	confidence := clampInt(score, 30, 95)

	expectedProfit := 5.0
	if ind.RSI < 30 {
		expectedProfit += 5
	}
	if ind.MACDHistogram > 0 {
		expectedProfit += 3
	}
	if price < ind.BollingerLower {
		expectedProfit += 4
	}
	if expectedProfit > 15 {
		expectedProfit = 15
	}

	var reasons []string
	if ind.RSI < 35 {
		reasons = append(reasons, fmt.Sprintf("RSI düşük (%.1f) - aşırı satım", ind.RSI))
	}
	if ind.MACDHistogram > 0 {
		reasons = append(reasons, "MACD pozitif momentum")
	}
	if price > ind.SMA20 {
		reasons = append(reasons, "SMA20 üzerinde")
	}
	if price < ind.BollingerLower {
		reasons = append(reasons, "Bollinger alt bandına yakın")
	}
	reason := "Teknik analiz tamamlandı."
	if len(reasons) > 0 {
		reason = strings.Join(reasons, ". ") + "."
	}

	trend := model.TrendNeutral
	if price > ind.SMA20 && ind.SMA20 > ind.SMA50 {
		trend = model.TrendBullish
	} else if price < ind.SMA20 && ind.SMA20 < ind.SMA50 {
		trend = model.TrendBearish
	}

	risk := model.RiskMedium
	if ind.RSI >= 30 && ind.RSI <= 70 && confidence >= 75 {
		risk = model.RiskLow
	}

	timeframe := "3-5 gün"
	if confidence >= 75 {
		timeframe = "2-3 gün"
	}

	return &model.Candidate{
		Symbol:                q.Symbol,
		Name:                  name,
		Action:                model.ActionBuy,
		EntryPrice:            round2(price),
		TargetPrice:           round2(price * (1 + expectedProfit/100)),
		StopLoss:              round2(price * 0.95),
		ExpectedProfitPercent: round2(expectedProfit),
		Confidence:            confidence,
		RiskLevel:             risk,
		Timeframe:             timeframe,
		Reason:                reason,
		TrendState:            trend,
		Indicators:            ind,
	}
}

// analyzeBasic scores from the quote alone. A jitter term in [-3,+8]
// keeps repeated runs from producing fully deterministic output; the
// score is clamped to [35,95].
func (e *Engine) analyzeBasic(q *model.Quote, name string) *model.Candidate {
	price := q.CurrentPrice
	change := q.ChangePercent

	momentum := change*0.7 + float64(q.Volume)/10_000_000*0.3
	volatility := q.Volatility()
	trend := trendBucket(change)

	score := 50.0
	if trend > 0 {
		score += float64(trend) * 10
	} else {
		score += float64(trend) * 5
	}
	if momentum > 0 {
		score += math.Min(momentum*3, 15)
	}
	if volatility > 0 && volatility < 3 {
		score += 10
	} else if volatility > 5 {
		score -= 5
	}
	if q.Volume > 5_000_000 {
		score += 10
	} else if q.Volume > 1_000_000 {
		score += 5
	}
	if change > 3 {
		score += 5
	}
	score += float64(e.rng.Intn(12) - 3) // jitter in [-3,+8]

	confidence := clampInt(score, 35, 95)

	expectedProfit := 3 + e.rng.Float64()*10

	risk := model.RiskLow
	if volatility > 5 {
		risk = model.RiskHigh
	} else if volatility > 2 {
		risk = model.RiskMedium
	}

	timeframe := "3-5 gün"
	if confidence >= 70 {
		timeframe = "2-3 gün"
	}

	trendState := model.TrendNeutral
	if trend > 0 {
		trendState = model.TrendBullish
	} else if trend < -1 {
		trendState = model.TrendBearish
	}

	return &model.Candidate{
		Symbol:                q.Symbol,
		Name:                  name,
		Action:                model.ActionBuy,
		EntryPrice:            round2(price),
		TargetPrice:           round2(price * (1 + expectedProfit/100)),
		StopLoss:              round2(price * 0.95),
		ExpectedProfitPercent: round2(expectedProfit),
		Confidence:            confidence,
		RiskLevel:             risk,
		Timeframe:             timeframe,
		Reason:                basicReason(trend, momentum, volatility, confidence),
		TrendState:            trendState,
	}
}

// trendBucket maps the daily change percentage onto the coarse trend
// scale used by basic scoring.
func trendBucket(changePercent float64) int {
	switch {
	case changePercent > 2:
		return 2
	case changePercent > 0:
		return 1
	case changePercent > -2:
		return -1
	default:
		return -2
	}
}

func basicReason(trend int, momentum, volatility float64, confidence int) string {
	var reasons []string
	if trend > 0 {
		reasons = append(reasons, "Yükseliş trendi tespit edildi")
	}
	if momentum > 3 {
		reasons = append(reasons, "Güçlü momentum sinyali")
	}
	if volatility < 2 {
		reasons = append(reasons, "Düşük volatilite - stabil hareket")
	} else if volatility > 5 {
		reasons = append(reasons, "Yüksek volatilite - dikkatli olun")
	}
	if confidence >= 70 {
		reasons = append(reasons, "Yüksek güven skoru")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Teknik gösterge analizi tamamlandı")
	}
	return strings.Join(reasons, ". ") + "."
}

func clampInt(v, lo, hi float64) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return int(math.Round(v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
