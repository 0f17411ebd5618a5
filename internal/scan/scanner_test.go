package scan

import (
	"math/rand"
	"testing"
	"time"

	"BistRadar/internal/analyze"
	"BistRadar/internal/model"
	"BistRadar/internal/quote"
	"BistRadar/internal/store"
)

type fakeNotifier struct {
	sent []string
	fail bool
}

func (f *fakeNotifier) NotifyOpportunity(o *model.Opportunity) error {
	if f.fail {
		return errNotify
	}
	f.sent = append(f.sent, o.Symbol)
	return nil
}

var errNotify = errString("telegram down")

type errString string

func (e errString) Error() string { return string(e) }

// strongQuote scores well above any threshold bucket in basic mode and
// survives every filter stage regardless of the jitter draw.
func strongQuote() *model.Quote {
	return &model.Quote{
		CurrentPrice:  100,
		Open:          99,
		High:          101,
		Low:           99,
		Volume:        6_000_000,
		PreviousClose: 97.5,
		Change:        2.5,
		ChangePercent: 2.5,
		Currency:      "TRY",
		Source:        "mock",
	}
}

func testScanner(t *testing.T, def *model.Quote) (*Scanner, *store.Store, *fakeNotifier) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	universe := []model.Symbol{
		{Code: "THYAO", Name: "Türk Hava Yolları"},
		{Code: "GARAN", Name: "Garanti Bankası"},
	}
	cache := quote.NewCache(&quote.MockFetcher{Default: def})
	n := &fakeNotifier{}

	s := NewScanner(1, universe, cache, st, analyze.NewEngine(rand.New(rand.NewSource(3))))
	s.Notifier = n
	s.Pacing = 0
	fixed := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	return s, st, n
}

func TestScanner_AcceptsAndPersists(t *testing.T) {
	s, st, n := testScanner(t, strongQuote())

	if err := s.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	open, err := st.OpenOpportunities(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 2 {
		t.Fatalf("got %d open opportunities, want 2", len(open))
	}
	for _, o := range open {
		if o.SignalHash == "" {
			t.Errorf("%s: missing signal hash", o.Symbol)
		}
		if o.TargetPrice <= o.EntryPrice || o.StopLoss >= o.EntryPrice {
			t.Errorf("%s: bad levels entry=%v target=%v stop=%v",
				o.Symbol, o.EntryPrice, o.TargetPrice, o.StopLoss)
		}
		if !o.Notified {
			t.Errorf("%s: accepted opportunity not flagged as notified", o.Symbol)
		}
	}
	if len(n.sent) != 2 {
		t.Errorf("notifier called %d times, want 2", len(n.sent))
	}
}

func TestScanner_SameDayRerunDeduplicates(t *testing.T) {
	s, st, n := testScanner(t, strongQuote())

	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}

	open, _ := st.OpenOpportunities(1)
	if len(open) != 2 {
		t.Errorf("rerun duplicated signals: %d rows, want 2", len(open))
	}
	if len(n.sent) != 2 {
		t.Errorf("rerun re-announced signals: %d sends, want 2", len(n.sent))
	}
}

func TestScanner_ThresholdGatesEverything(t *testing.T) {
	s, st, n := testScanner(t, strongQuote())
	s.Profile = ThresholdProfile{MinResults: 8, Fallback: 96, Poor: 96, Weak: 96, Fair: 96, Strong: 96}

	if err := s.Run(); err != nil {
		t.Fatal(err)
	}

	open, _ := st.OpenOpportunities(1)
	if len(open) != 0 {
		t.Errorf("threshold 96 let %d opportunities through", len(open))
	}
	if len(n.sent) != 0 {
		t.Errorf("rejected candidates were announced: %v", n.sent)
	}
}

func TestScanner_NotifyFailureKeepsOpportunity(t *testing.T) {
	s, st, n := testScanner(t, strongQuote())
	n.fail = true

	if err := s.Run(); err != nil {
		t.Fatal(err)
	}

	open, _ := st.OpenOpportunities(1)
	if len(open) != 2 {
		t.Fatalf("got %d open opportunities, want 2", len(open))
	}
	for _, o := range open {
		if o.Notified {
			t.Errorf("%s: flagged notified despite send failure", o.Symbol)
		}
	}
}

func TestScanner_AdvancedModeStoresIndicatorSnapshot(t *testing.T) {
	s, st, _ := testScanner(t, strongQuote())

	// Thirty days of history flips THYAO into advanced scoring.
	day := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		if err := st.UpsertClose("THYAO", day.AddDate(0, 0, i).Format("2006-01-02"), 95+float64(i%5), 1_000_000); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Run(); err != nil {
		t.Fatal(err)
	}

	ind, err := st.IndicatorsOn("THYAO", "2026-08-31")
	if err != nil {
		t.Fatalf("advanced scan left no indicator snapshot: %v", err)
	}
	if ind.RSI <= 0 || ind.RSI >= 100 {
		t.Errorf("snapshot RSI %v out of range", ind.RSI)
	}

	if _, err := st.IndicatorsOn("GARAN", "2026-08-31"); err == nil {
		t.Error("basic-mode symbol must not write an indicator snapshot")
	}
}
