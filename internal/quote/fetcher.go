package quote

import (
	"log"
	"math/rand"
	"time"

	"BistRadar/internal/model"
)

// Provider fetches a live quote for one symbol from a single upstream.
type Provider interface {
	Quote(symbol string) (*model.Quote, error)
	Name() string
}

// Fetcher is the quote acquisition contract consumed by the pipeline.
type Fetcher interface {
	Fetch(symbol string) *model.Quote
}

// Source tries providers in priority order and falls back to synthetic
// data when all of them fail, so callers always receive a complete
// quote. Real and synthetic quotes are distinguished by the Simulated
// flag.
type Source struct {
	providers []Provider
	rng       *rand.Rand
}

// NewSource creates a Source over the given provider chain. rng feeds
// the synthetic fallback and is injectable so tests can pin it.
func NewSource(rng *rand.Rand, providers ...Provider) *Source {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Source{providers: providers, rng: rng}
}

// Fetch returns a quote for symbol. Provider failures are logged and
// absorbed here; they are never surfaced to the pipeline.
func (s *Source) Fetch(symbol string) *model.Quote {
	for _, p := range s.providers {
		q, err := p.Quote(symbol)
		if err != nil {
			log.Printf("[WARN] provider %s failed for %s: %v", p.Name(), symbol, err)
			continue
		}
		return q
	}
	log.Printf("[WARN] all providers failed for %s, using simulated data", symbol)
	return s.synthetic(symbol)
}

// synthetic builds a well-formed quote randomized within plausible
// bounds.
func (s *Source) synthetic(symbol string) *model.Quote {
	base := 10 + s.rng.Float64()*500
	changePercent := -5 + s.rng.Float64()*10
	prev := base * (1 - changePercent/100)

	return &model.Quote{
		Symbol:        symbol,
		CurrentPrice:  base,
		Open:          prev,
		High:          base * 1.03,
		Low:           base * 0.97,
		Volume:        1_000_000 + s.rng.Int63n(49_000_000),
		PreviousClose: prev,
		Change:        base * changePercent / 100,
		ChangePercent: changePercent,
		Currency:      "TRY",
		Source:        "simulated",
		FetchedAt:     time.Now(),
		Simulated:     true,
	}
}
