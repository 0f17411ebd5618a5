package model

import "time"

// Action is the advised trade direction.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// RiskLevel is the qualitative risk bucket of a signal.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// TrendState classifies the moving-average ordering.
type TrendState string

const (
	TrendBullish TrendState = "bullish"
	TrendBearish TrendState = "bearish"
	TrendNeutral TrendState = "neutral"
)

// Status is the lifecycle state of a persisted opportunity.
type Status string

const (
	StatusOpen    Status = "OPEN"
	StatusWin     Status = "WIN"
	StatusLoss    Status = "LOSS"
	StatusExpired Status = "EXPIRED"
)

// ExitReason records what trigger closed an opportunity.
type ExitReason string

const (
	ExitTarget ExitReason = "TARGET"
	ExitStop   ExitReason = "STOP"
	ExitExpire ExitReason = "EXPIRE"
)

// Candidate is a scored signal that has not yet passed the filter pipeline.
type Candidate struct {
	Symbol                string
	Name                  string
	Action                Action
	EntryPrice            float64
	TargetPrice           float64
	StopLoss              float64
	ExpectedProfitPercent float64
	Confidence            int // 0-100
	RiskLevel             RiskLevel
	Timeframe             string
	Reason                string
	TrendState            TrendState
	Indicators            *Indicators // nil in basic scoring mode
}

// RiskReward returns (target-entry)/(entry-stop), or 0 when the stop
// distance is not positive.
func (c *Candidate) RiskReward() float64 {
	risk := c.EntryPrice - c.StopLoss
	if risk <= 0 {
		return 0
	}
	return (c.TargetPrice - c.EntryPrice) / risk
}

// Opportunity is an accepted, persisted candidate plus lifecycle state.
// The scanning path never mutates it after insert; only the outcome
// resolver and the expiry sweep do.
type Opportunity struct {
	ID                    int64
	OperatorID            int64
	Symbol                string
	Name                  string
	Action                Action
	EntryPrice            float64
	TargetPrice           float64
	StopLoss              float64
	ExpectedProfitPercent float64
	Confidence            int
	RiskLevel             RiskLevel
	Timeframe             string
	Reason                string
	Status                Status
	IsActive              bool
	Notified              bool
	SignalHash            string
	CreatedAt             time.Time
	ClosedAt              time.Time
	ExitPrice             float64
	ExitReason            ExitReason
	RealizedProfitPercent float64
}

// TradeResult is the immutable audit row written when an opportunity
// closes. It is the sole input to the dynamic threshold.
type TradeResult struct {
	ID                    int64
	OpportunityID         int64
	OperatorID            int64
	Symbol                string
	Action                Action
	EntryPrice            float64
	ExitPrice             float64
	ExitReason            ExitReason
	ExpectedProfitPercent float64
	RealizedProfitPercent float64
	Confidence            int
	RiskLevel             RiskLevel
	OpenedAt              time.Time
	ClosedAt              time.Time
}
