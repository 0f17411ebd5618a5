package scan

import (
	"math/rand"
	"testing"

	"BistRadar/internal/analyze"
	"BistRadar/internal/model"
)

// passingInput builds a candidate that survives every stage with a
// threshold of 50.
func passingInput() *FilterInput {
	return &FilterInput{
		Candidate: &model.Candidate{
			Symbol:      "THYAO",
			Action:      model.ActionBuy,
			EntryPrice:  100,
			TargetPrice: 110,
			StopLoss:    95,
			Confidence:  80,
			TrendState:  model.TrendBullish,
			Indicators:  &model.Indicators{RSI: 50, MACDHistogram: 0.5},
		},
		Quote: &model.Quote{
			Symbol:        "THYAO",
			CurrentPrice:  100,
			High:          102,
			Low:           98,
			Volume:        6_000_000,
			ChangePercent: 1,
		},
		Threshold: 50,
	}
}

func TestRunFilters_AcceptsCleanCandidate(t *testing.T) {
	v := RunFilters(passingInput())
	if !v.Accepted {
		t.Fatalf("clean candidate rejected at %s: %s", v.Stage, v.Reason)
	}
}

// The textbook entry setup: oversold with returning momentum, price
// under the lower band, strong volume on an up day. Scores near the
// ceiling and must clear the whole pipeline even under a high
// threshold.
func TestRunFilters_AcceptsOversoldReversalSetup(t *testing.T) {
	q := &model.Quote{
		Symbol:        "SAHOL",
		CurrentPrice:  100,
		High:          103,
		Low:           99,
		Volume:        6_000_000,
		ChangePercent: 3,
	}
	ind := &model.Indicators{
		RSI:            25,
		MACDHistogram:  0.5,
		SMA20:          104,
		SMA50:          102,
		BollingerUpper: 112,
		BollingerLower: 101,
	}
	c := analyze.NewEngine(rand.New(rand.NewSource(1))).AdvancedFromIndicators(q, "Sabancı Holding", ind)

	v := RunFilters(&FilterInput{Candidate: c, Quote: q, Threshold: 85})
	if !v.Accepted {
		t.Fatalf("reversal setup rejected at %s: %s", v.Stage, v.Reason)
	}
	if c.TargetPrice <= c.EntryPrice || c.RiskReward() < 1.4 {
		t.Errorf("adjusted levels inconsistent: entry=%v target=%v stop=%v",
			c.EntryPrice, c.TargetPrice, c.StopLoss)
	}
}

func TestRunFilters_RejectionStages(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*FilterInput)
		wantStage string
	}{
		{
			"below threshold",
			func(in *FilterInput) { in.Candidate.Confidence = 45 },
			"min_confidence",
		},
		{
			"weekly downtrend with modest confidence",
			func(in *FilterInput) { in.Slope7d = -3; in.Candidate.Confidence = 70 },
			"weekly_downtrend",
		},
		{
			"bearish alignment",
			func(in *FilterInput) { in.Candidate.TrendState = model.TrendBearish },
			"bearish_trend",
		},
		{
			"overbought",
			func(in *FilterInput) { in.Candidate.Indicators.RSI = 75 },
			"overbought",
		},
		{
			"oversold without momentum",
			func(in *FilterInput) {
				in.Candidate.Indicators.RSI = 25
				in.Candidate.Indicators.MACDHistogram = -0.1
			},
			"falling_knife",
		},
		{
			"thin tape",
			func(in *FilterInput) { in.Quote.Volume = 300_000; in.Quote.ChangePercent = 0 },
			"illiquid",
		},
		{
			"wide range day without conviction",
			func(in *FilterInput) {
				in.Quote.High = 111
				in.Quote.Low = 89
				in.Candidate.Confidence = 70
			},
			"excess_volatility",
		},
		{
			"reward too thin after adjustment",
			func(in *FilterInput) {
				// Quiet tape caps the target at entry+2%; a 1% raw
				// target leaves nothing against the 1.2% stop.
				in.Quote.High = 100.5
				in.Quote.Low = 99.5
				in.Candidate.TargetPrice = 101
			},
			"risk_reward",
		},
	}
	for _, tc := range cases {
		in := passingInput()
		tc.mutate(in)
		v := RunFilters(in)
		if v.Accepted {
			t.Errorf("%s: candidate accepted, want rejection at %s", tc.name, tc.wantStage)
			continue
		}
		if v.Stage != tc.wantStage {
			t.Errorf("%s: rejected at %s (%s), want %s", tc.name, v.Stage, v.Reason, tc.wantStage)
		}
	}
}

func TestRunFilters_FirstRejectionWins(t *testing.T) {
	in := passingInput()
	in.Candidate.Confidence = 40
	in.Candidate.TrendState = model.TrendBearish

	v := RunFilters(in)
	if v.Stage != "min_confidence" {
		t.Errorf("rejected at %s, want the earliest stage min_confidence", v.Stage)
	}
}

func TestRunFilters_SkipsIndicatorStagesInBasicMode(t *testing.T) {
	in := passingInput()
	in.Candidate.Indicators = nil

	v := RunFilters(in)
	if !v.Accepted {
		t.Errorf("basic-mode candidate rejected at %s: %s", v.Stage, v.Reason)
	}
}

func TestAdjustTargetsByVolatility_OnlyTightens(t *testing.T) {
	// 4% intraday range: target cap entry+3.6%, stop floor entry-2.4%.
	in := passingInput()
	adjustTargetsByVolatility(in)
	c := in.Candidate
	if c.TargetPrice != 103.6 {
		t.Errorf("target = %v, want capped 103.6", c.TargetPrice)
	}
	if c.StopLoss != 97.6 {
		t.Errorf("stop = %v, want raised 97.6", c.StopLoss)
	}
	if c.ExpectedProfitPercent != 3.6 {
		t.Errorf("expected profit = %v, want recomputed 3.6", c.ExpectedProfitPercent)
	}

	// Already tighter levels stay where they are.
	in = passingInput()
	in.Candidate.TargetPrice = 102
	in.Candidate.StopLoss = 98
	adjustTargetsByVolatility(in)
	if in.Candidate.TargetPrice != 102 || in.Candidate.StopLoss != 98 {
		t.Errorf("adjustment loosened levels: target %v stop %v",
			in.Candidate.TargetPrice, in.Candidate.StopLoss)
	}
}

func TestRejectInvertedTarget(t *testing.T) {
	in := passingInput()
	in.Candidate.TargetPrice = in.Candidate.EntryPrice
	if reject, _ := rejectInvertedTarget(in); !reject {
		t.Error("BUY with target at entry must be rejected")
	}
	in.Candidate.TargetPrice = in.Candidate.EntryPrice + 1
	if reject, _ := rejectInvertedTarget(in); reject {
		t.Error("BUY with target above entry must pass")
	}
}
