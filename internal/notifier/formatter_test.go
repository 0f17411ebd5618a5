package notifier

import (
	"strings"
	"testing"
	"time"

	"BistRadar/internal/model"
)

func TestFormatOpportunity(t *testing.T) {
	o := &model.Opportunity{
		Symbol:                "THYAO",
		Name:                  "Türk Hava Yolları",
		Action:                model.ActionBuy,
		EntryPrice:            250.4,
		TargetPrice:           259.16,
		StopLoss:              244.14,
		ExpectedProfitPercent: 3.5,
		Confidence:            82,
		RiskLevel:             model.RiskLow,
		Timeframe:             "2-3 gün",
		Reason:                "MACD pozitif momentum. SMA20 üzerinde.",
		CreatedAt:             time.Date(2026, 8, 31, 10, 15, 0, 0, time.UTC),
	}

	msg := FormatOpportunity(o)

	for _, want := range []string{
		"THYAO",
		"Türk Hava Yolları",
		"AL",
		"250.40",
		"259.16",
		"244.14",
		"%82",
		"düşük",
		"2-3 gün",
		"MACD pozitif momentum",
		"2026-08-31 10:15",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatOpportunity_OmitsEmptySections(t *testing.T) {
	o := &model.Opportunity{
		Symbol:     "GARAN",
		Action:     model.ActionSell,
		EntryPrice: 100,
		RiskLevel:  model.RiskHigh,
		CreatedAt:  time.Now(),
	}
	msg := FormatOpportunity(o)
	if strings.Contains(msg, "()") {
		t.Error("empty name rendered as ()")
	}
	if !strings.Contains(msg, "SAT") || !strings.Contains(msg, "yüksek") {
		t.Errorf("labels missing:\n%s", msg)
	}
}
