package resolve

import (
	"fmt"
	"log"
	"math"
	"time"

	"BistRadar/internal/model"
	"BistRadar/internal/quote"
	"BistRadar/internal/store"
)

// ExpirePolicy selects how an expired opportunity is booked.
type ExpirePolicy string

const (
	// ExpireAtZero books expiry as a flat close at the entry price.
	ExpireAtZero ExpirePolicy = "zero"
	// ExpireAtMarket re-quotes and books the mark-to-market delta.
	ExpireAtMarket ExpirePolicy = "market"
)

// Resolver walks the operator's open opportunities, decides outcomes
// against live prices and writes the audit trail.
type Resolver struct {
	OperatorID int64
	Quotes     *quote.Cache
	Store      *store.Store
	Policy     ExpirePolicy
	QuoteTTL   time.Duration
	Pacing     time.Duration
	Retention  time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

// NewResolver creates a resolver with the stock tuning.
func NewResolver(operatorID int64, quotes *quote.Cache, st *store.Store) *Resolver {
	return &Resolver{
		OperatorID: operatorID,
		Quotes:     quotes,
		Store:      st,
		Policy:     ExpireAtZero,
		QuoteTTL:   2 * time.Minute,
		Pacing:     400 * time.Millisecond,
		Retention:  24 * time.Hour,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// Run executes one resolution pass. A failure on one opportunity is
// logged and the pass continues with the next.
func (r *Resolver) Run() error {
	open, err := r.Store.OpenOpportunities(r.OperatorID)
	if err != nil {
		return fmt.Errorf("load open opportunities: %w", err)
	}
	log.Printf("[INFO] resolve start: %d open opportunities", len(open))

	closed := 0
	for i, o := range open {
		if i > 0 && r.Pacing > 0 {
			r.sleep(r.Pacing)
		}
		done, err := r.resolveOne(o)
		if err != nil {
			log.Printf("[ERROR] resolve %s (#%d): %v", o.Symbol, o.ID, err)
			continue
		}
		if done {
			closed++
		}
	}
	log.Printf("[INFO] resolve done: %d closed", closed)
	return nil
}

// resolveOne closes the opportunity when its deadline passed or a
// price trigger fired. It reports whether a terminal state was written.
func (r *Resolver) resolveOne(o *model.Opportunity) (bool, error) {
	now := r.now()
	deadline := o.CreatedAt.AddDate(0, 0, ParseTimeframeDays(o.Timeframe))
	if now.After(deadline) {
		return true, r.expire(o, now)
	}

	q := r.Quotes.GetOrFetch(o.Symbol, "resolve", r.QuoteTTL)
	if q.Simulated {
		// A synthetic price must never settle a real position.
		log.Printf("[WARN] resolve %s: no live quote, skipping", o.Symbol)
		return false, nil
	}

	price := q.CurrentPrice
	switch {
	case price >= o.TargetPrice:
		return true, r.close(o, now, model.StatusWin, model.ExitTarget, price)
	case price <= o.StopLoss:
		return true, r.close(o, now, model.StatusLoss, model.ExitStop, price)
	}
	return false, nil
}

func (r *Resolver) expire(o *model.Opportunity, now time.Time) error {
	exitPrice := o.EntryPrice
	if r.Policy == ExpireAtMarket {
		q := r.Quotes.GetOrFetch(o.Symbol, "resolve", r.QuoteTTL)
		if q.Simulated {
			log.Printf("[WARN] expire %s: no live quote, booking at entry", o.Symbol)
		} else {
			exitPrice = q.CurrentPrice
		}
	}
	return r.close(o, now, model.StatusExpired, model.ExitExpire, exitPrice)
}

func (r *Resolver) close(o *model.Opportunity, now time.Time, status model.Status, reason model.ExitReason, exitPrice float64) error {
	realized := round2((exitPrice - o.EntryPrice) / o.EntryPrice * 100)

	o.Status = status
	o.IsActive = false
	o.ClosedAt = now
	o.ExitPrice = exitPrice
	o.ExitReason = reason
	o.RealizedProfitPercent = realized

	if err := r.Store.CloseOpportunity(o); err != nil {
		return err
	}
	if err := r.Store.InsertTradeResult(&model.TradeResult{
		OpportunityID:         o.ID,
		OperatorID:            o.OperatorID,
		Symbol:                o.Symbol,
		Action:                o.Action,
		EntryPrice:            o.EntryPrice,
		ExitPrice:             exitPrice,
		ExitReason:            reason,
		ExpectedProfitPercent: o.ExpectedProfitPercent,
		RealizedProfitPercent: realized,
		Confidence:            o.Confidence,
		RiskLevel:             o.RiskLevel,
		OpenedAt:              o.CreatedAt,
		ClosedAt:              now,
	}); err != nil {
		return err
	}

	log.Printf("[INFO] %s #%d closed %s/%s at %.2f (%.2f%%)",
		o.Symbol, o.ID, status, reason, exitPrice, realized)
	return nil
}

// Sweep deactivates active opportunities older than the retention
// window. They stay OPEN; they just leave the active listings.
func (r *Resolver) Sweep() error {
	n, err := r.Store.DeactivateStale(r.OperatorID, r.now().Add(-r.Retention))
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("[INFO] expiry sweep: %d opportunities deactivated", n)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
