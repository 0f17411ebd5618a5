package scan

import (
	"fmt"
	"math"

	"BistRadar/internal/model"
)

// FilterInput is everything the pipeline needs to judge one candidate.
// Threshold is computed once per run and shared across all inputs.
type FilterInput struct {
	Candidate *model.Candidate
	Quote     *model.Quote
	Slope7d   float64 // percent change over the last week of closes
	Threshold int
}

// Verdict is the pipeline outcome. On rejection Stage names the first
// stage that failed the candidate.
type Verdict struct {
	Accepted bool
	Stage    string
	Reason   string
}

type filterStage struct {
	name string
	fn   func(*FilterInput) (bool, string)
}

// The stages run in order and the first rejection short-circuits the
// rest. volatility_adjust never rejects; it tightens the target and
// stop before the risk/reward check sees them.
var filterStages = []filterStage{
	{"min_confidence", rejectBelowThreshold},
	{"weekly_downtrend", rejectWeeklyDowntrend},
	{"bearish_trend", rejectBearishTrend},
	{"overbought", rejectOverbought},
	{"falling_knife", rejectFallingKnife},
	{"illiquid", rejectIlliquid},
	{"excess_volatility", rejectExcessVolatility},
	{"volatility_adjust", adjustTargetsByVolatility},
	{"risk_reward", rejectPoorRiskReward},
	{"inverted_target", rejectInvertedTarget},
}

// RunFilters runs a candidate through the pipeline. Stage 8 mutates
// the candidate's target, stop and expected profit in place.
func RunFilters(in *FilterInput) Verdict {
	for _, st := range filterStages {
		if reject, reason := st.fn(in); reject {
			return Verdict{Stage: st.name, Reason: reason}
		}
	}
	return Verdict{Accepted: true}
}

func rejectBelowThreshold(in *FilterInput) (bool, string) {
	if in.Candidate.Confidence < in.Threshold {
		return true, fmt.Sprintf("confidence %d below threshold %d", in.Candidate.Confidence, in.Threshold)
	}
	return false, ""
}

func rejectWeeklyDowntrend(in *FilterInput) (bool, string) {
	if in.Slope7d < -2.5 && in.Candidate.Confidence < 75 {
		return true, fmt.Sprintf("7d slope %.2f%% with confidence %d", in.Slope7d, in.Candidate.Confidence)
	}
	return false, ""
}

func rejectBearishTrend(in *FilterInput) (bool, string) {
	if in.Candidate.TrendState == model.TrendBearish {
		return true, "bearish moving-average alignment"
	}
	return false, ""
}

func rejectOverbought(in *FilterInput) (bool, string) {
	ind := in.Candidate.Indicators
	if ind != nil && ind.RSI > 70 {
		return true, fmt.Sprintf("RSI %.1f overbought", ind.RSI)
	}
	return false, ""
}

// An oversold symbol with no positive MACD momentum is still falling;
// oversold alone is not an entry.
func rejectFallingKnife(in *FilterInput) (bool, string) {
	ind := in.Candidate.Indicators
	if ind != nil && ind.RSI < 30 && ind.MACDHistogram <= 0 {
		return true, fmt.Sprintf("RSI %.1f without momentum (hist %.3f)", ind.RSI, ind.MACDHistogram)
	}
	return false, ""
}

func rejectIlliquid(in *FilterInput) (bool, string) {
	q := in.Quote
	momentum := q.ChangePercent*0.7 + float64(q.Volume)/10_000_000*0.3
	if momentum < 0.4 && q.Volume < 500_000 {
		return true, fmt.Sprintf("momentum %.2f on %d volume", momentum, q.Volume)
	}
	return false, ""
}

func rejectExcessVolatility(in *FilterInput) (bool, string) {
	vol := in.Quote.Volatility()
	if vol > 9.5 && in.Candidate.Confidence < 75 {
		return true, fmt.Sprintf("intraday volatility %.1f%% with confidence %d", vol, in.Candidate.Confidence)
	}
	return false, ""
}

// adjustTargetsByVolatility scales the profit target and stop distance
// to the observed intraday range. It only ever tightens: the target
// can move down, the stop can move up, never the other way.
func adjustTargetsByVolatility(in *FilterInput) (bool, string) {
	c := in.Candidate

	vol := clamp(in.Quote.Volatility(), 0.5, 12)
	profitPct := clamp(vol*0.9, 2, 12)
	stopPct := clamp(vol*0.6, 1.2, 6)

	c.TargetPrice = round2(math.Min(c.TargetPrice, c.EntryPrice*(1+profitPct/100)))
	c.StopLoss = round2(math.Max(c.StopLoss, c.EntryPrice*(1-stopPct/100)))
	c.ExpectedProfitPercent = round2((c.TargetPrice - c.EntryPrice) / c.EntryPrice * 100)
	return false, ""
}

func rejectPoorRiskReward(in *FilterInput) (bool, string) {
	if rr := in.Candidate.RiskReward(); rr < 1.4 {
		return true, fmt.Sprintf("risk/reward %.2f below 1.4", rr)
	}
	return false, ""
}

func rejectInvertedTarget(in *FilterInput) (bool, string) {
	c := in.Candidate
	if c.Action == model.ActionBuy && c.TargetPrice <= c.EntryPrice {
		return true, fmt.Sprintf("target %.2f not above entry %.2f", c.TargetPrice, c.EntryPrice)
	}
	return false, ""
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
