package quote

import (
	"time"

	"BistRadar/internal/model"
)

// MockFetcher returns controllable fixed quotes for development and
// testing. Quotes returns the per-symbol quote when set, otherwise the
// Default quote stamped with the requested symbol.
type MockFetcher struct {
	Quotes  map[string]*model.Quote
	Default *model.Quote
	Calls   int
}

func (m *MockFetcher) Fetch(symbol string) *model.Quote {
	m.Calls++
	if q, ok := m.Quotes[symbol]; ok {
		cp := *q
		cp.FetchedAt = time.Now()
		return &cp
	}
	if m.Default != nil {
		cp := *m.Default
		cp.Symbol = symbol
		cp.FetchedAt = time.Now()
		return &cp
	}
	return &model.Quote{
		Symbol:        symbol,
		CurrentPrice:  100,
		Open:          99,
		High:          101,
		Low:           98,
		Volume:        2_000_000,
		PreviousClose: 99,
		Change:        1,
		ChangePercent: 1.01,
		Currency:      "TRY",
		Source:        "mock",
		FetchedAt:     time.Now(),
	}
}
