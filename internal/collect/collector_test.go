package collect

import (
	"testing"
	"time"

	"BistRadar/internal/model"
	"BistRadar/internal/quote"
	"BistRadar/internal/store"
)

func testCollector(t *testing.T, mock *quote.MockFetcher) (*Collector, *store.Store) {
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
	c := NewCollector(universe, quote.NewCache(mock), st)
	c.Pacing = 0
	c.now = func() time.Time { return time.Date(2026, 8, 31, 18, 30, 0, 0, time.UTC) }
	return c, st
}

func TestCollector_StoresDailyCloses(t *testing.T) {
	mock := &quote.MockFetcher{Quotes: map[string]*model.Quote{
		"THYAO": {Symbol: "THYAO", CurrentPrice: 250.4, Volume: 3_000_000, Source: "yahoo"},
		"GARAN": {Symbol: "GARAN", CurrentPrice: 98.1, Volume: 9_000_000, Source: "yahoo"},
	}}
	c, st := testCollector(t, mock)

	if err := c.Run(); err != nil {
		t.Fatal(err)
	}

	closes, err := st.Closes("THYAO", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(closes) != 1 || closes[0] != 250.4 {
		t.Errorf("THYAO closes = %v, want [250.4]", closes)
	}
}

func TestCollector_RerunOverwritesSameDay(t *testing.T) {
	q := &model.Quote{Symbol: "THYAO", CurrentPrice: 250, Volume: 1_000_000, Source: "yahoo"}
	mock := &quote.MockFetcher{Quotes: map[string]*model.Quote{"THYAO": q}}
	c, st := testCollector(t, mock)
	c.Universe = c.Universe[:1]
	c.QuoteTTL = 0 // bypass the cache so the second run sees the new price

	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	q.CurrentPrice = 252
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}

	closes, _ := st.Closes("THYAO", 10)
	if len(closes) != 1 || closes[0] != 252 {
		t.Errorf("closes = %v, want the rerun value [252]", closes)
	}
}

func TestCollector_SkipsSyntheticQuotes(t *testing.T) {
	sim := &model.Quote{CurrentPrice: 123, Volume: 2_000_000, Source: "simulated", Simulated: true}
	mock := &quote.MockFetcher{Default: sim}
	c, st := testCollector(t, mock)

	if err := c.Run(); err != nil {
		t.Fatal(err)
	}

	closes, _ := st.Closes("THYAO", 10)
	if len(closes) != 0 {
		t.Errorf("synthetic close stored: %v", closes)
	}
}
