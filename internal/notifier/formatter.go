package notifier

import (
	"fmt"
	"strings"

	"BistRadar/internal/model"
)

// FormatOpportunity renders an accepted opportunity as a Telegram
// message. User-facing text is Turkish; the HTML tags match the
// parse_mode the sender uses.
func FormatOpportunity(o *model.Opportunity) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🎯 <b>Yeni Fırsat: %s</b>", o.Symbol))
	if o.Name != "" {
		b.WriteString(fmt.Sprintf(" (%s)", o.Name))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("İşlem: %s\n", actionLabel(o.Action)))
	b.WriteString(fmt.Sprintf("Giriş: %.2f ₺\n", o.EntryPrice))
	b.WriteString(fmt.Sprintf("Hedef: %.2f ₺ (%+.1f%%)\n", o.TargetPrice, o.ExpectedProfitPercent))
	b.WriteString(fmt.Sprintf("Stop: %.2f ₺\n", o.StopLoss))
	b.WriteString(fmt.Sprintf("Güven: %%%d | Risk: %s\n", o.Confidence, riskLabel(o.RiskLevel)))
	b.WriteString(fmt.Sprintf("Vade: %s\n", o.Timeframe))

	if o.Reason != "" {
		b.WriteString(fmt.Sprintf("\n%s\n", o.Reason))
	}
	b.WriteString(fmt.Sprintf("\n🕑 %s", o.CreatedAt.Format("2006-01-02 15:04")))
	return b.String()
}

func actionLabel(a model.Action) string {
	switch a {
	case model.ActionBuy:
		return "AL"
	case model.ActionSell:
		return "SAT"
	default:
		return string(a)
	}
}

func riskLabel(r model.RiskLevel) string {
	switch r {
	case model.RiskLow:
		return "düşük"
	case model.RiskHigh:
		return "yüksek"
	default:
		return "orta"
	}
}
