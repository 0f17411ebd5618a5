package scan

import (
	"fmt"
	"log"
	"time"

	"BistRadar/internal/analyze"
	"BistRadar/internal/model"
	"BistRadar/internal/quote"
	"BistRadar/internal/store"
)

// Notifier announces a freshly accepted opportunity.
type Notifier interface {
	NotifyOpportunity(o *model.Opportunity) error
}

// Scanner runs one market sweep: quote, score, filter, dedup, persist,
// announce. Symbols are processed sequentially with a pacing delay so
// the providers are not hammered.
type Scanner struct {
	OperatorID   int64
	Universe     []model.Symbol
	Quotes       *quote.Cache
	Store        *store.Store
	Engine       *analyze.Engine
	Notifier     Notifier // optional
	Profile      ThresholdProfile
	QuoteTTL     time.Duration
	Pacing       time.Duration
	HistoryLimit int
	ResultWindow time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

// NewScanner creates a scanner with the stock tuning.
func NewScanner(operatorID int64, universe []model.Symbol, quotes *quote.Cache, st *store.Store, engine *analyze.Engine) *Scanner {
	return &Scanner{
		OperatorID:   operatorID,
		Universe:     universe,
		Quotes:       quotes,
		Store:        st,
		Engine:       engine,
		Profile:      DefaultThresholdProfile,
		QuoteTTL:     2 * time.Minute,
		Pacing:       400 * time.Millisecond,
		HistoryLimit: 60,
		ResultWindow: 30 * 24 * time.Hour,
		now:          time.Now,
		sleep:        time.Sleep,
	}
}

// Run executes one scan pass. The confidence threshold is computed
// once for the whole pass; per-symbol failures are logged and do not
// abort the sweep.
func (s *Scanner) Run() error {
	start := s.now()

	total, wins, err := s.Store.WinRate(s.OperatorID, start.Add(-s.ResultWindow))
	if err != nil {
		return fmt.Errorf("load win rate: %w", err)
	}
	threshold := s.Profile.MinConfidence(total, wins)
	log.Printf("[INFO] scan start: %d symbols, threshold %d (results=%d wins=%d)",
		len(s.Universe), threshold, total, wins)

	var accepted []*model.Opportunity
	for i, sym := range s.Universe {
		if i > 0 && s.Pacing > 0 {
			s.sleep(s.Pacing)
		}
		opp, err := s.scanSymbol(sym, threshold)
		if err != nil {
			log.Printf("[ERROR] scan %s: %v", sym.Code, err)
			continue
		}
		if opp != nil {
			accepted = append(accepted, opp)
		}
	}

	for _, opp := range accepted {
		s.announce(opp)
	}

	log.Printf("[INFO] scan done: %d new opportunities in %s",
		len(accepted), s.now().Sub(start).Round(time.Millisecond))
	return nil
}

// scanSymbol returns nil, nil when the symbol was handled but produced
// no new opportunity (filtered out or duplicate).
func (s *Scanner) scanSymbol(sym model.Symbol, threshold int) (*model.Opportunity, error) {
	q := s.Quotes.GetOrFetch(sym.Code, "scan", s.QuoteTTL)

	closes, err := s.Store.Closes(sym.Code, s.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load closes: %w", err)
	}

	today := s.now()
	cand := s.Engine.Analyze(q, sym.Name, closes)
	if cand.Indicators != nil {
		if err := s.Store.UpsertIndicators(sym.Code, today.Format("2006-01-02"), cand.Indicators); err != nil {
			log.Printf("[WARN] save indicators %s: %v", sym.Code, err)
		}
	}

	week, err := s.Store.ClosesSince(sym.Code, today.AddDate(0, 0, -7).Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("load weekly closes: %w", err)
	}

	verdict := RunFilters(&FilterInput{
		Candidate: cand,
		Quote:     q,
		Slope7d:   TrendSlope(week),
		Threshold: threshold,
	})
	if !verdict.Accepted {
		log.Printf("[INFO] %s rejected at %s: %s", sym.Code, verdict.Stage, verdict.Reason)
		return nil, nil
	}

	opp := &model.Opportunity{
		OperatorID:            s.OperatorID,
		Symbol:                cand.Symbol,
		Name:                  cand.Name,
		Action:                cand.Action,
		EntryPrice:            cand.EntryPrice,
		TargetPrice:           cand.TargetPrice,
		StopLoss:              cand.StopLoss,
		ExpectedProfitPercent: cand.ExpectedProfitPercent,
		Confidence:            cand.Confidence,
		RiskLevel:             cand.RiskLevel,
		Timeframe:             cand.Timeframe,
		Reason:                cand.Reason,
		SignalHash:            SignalHash(cand, today),
		CreatedAt:             today,
	}
	inserted, err := s.Store.InsertOpportunity(opp)
	if err != nil {
		return nil, err
	}
	if !inserted {
		log.Printf("[INFO] %s: duplicate signal for today, skipped", sym.Code)
		return nil, nil
	}
	log.Printf("[INFO] %s: new %s opportunity, confidence %d, entry %.2f target %.2f",
		opp.Symbol, opp.Action, opp.Confidence, opp.EntryPrice, opp.TargetPrice)
	return opp, nil
}

func (s *Scanner) announce(o *model.Opportunity) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.NotifyOpportunity(o); err != nil {
		log.Printf("[ERROR] notify %s: %v", o.Symbol, err)
		return
	}
	if err := s.Store.MarkNotified(o.ID); err != nil {
		log.Printf("[ERROR] mark notified %s: %v", o.Symbol, err)
	}
}
