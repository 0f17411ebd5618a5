package collect

import (
	"log"
	"time"

	"BistRadar/internal/model"
	"BistRadar/internal/quote"
	"BistRadar/internal/store"
)

// Collector ingests one daily close per symbol into the price history.
// Reruns on the same day overwrite, so the last run before the close
// wins.
type Collector struct {
	Universe []model.Symbol
	Quotes   *quote.Cache
	Store    *store.Store
	QuoteTTL time.Duration
	Pacing   time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

// NewCollector creates a collector with the stock tuning.
func NewCollector(universe []model.Symbol, quotes *quote.Cache, st *store.Store) *Collector {
	return &Collector{
		Universe: universe,
		Quotes:   quotes,
		Store:    st,
		QuoteTTL: 2 * time.Minute,
		Pacing:   500 * time.Millisecond,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Run records today's close for every symbol in the universe.
// Synthetic quotes are skipped: an invented price in the history would
// poison every later indicator run.
func (c *Collector) Run() error {
	date := c.now().Format("2006-01-02")
	log.Printf("[INFO] collect start: %d symbols for %s", len(c.Universe), date)

	stored, skipped := 0, 0
	for i, sym := range c.Universe {
		if i > 0 && c.Pacing > 0 {
			c.sleep(c.Pacing)
		}
		q := c.Quotes.GetOrFetch(sym.Code, "collect", c.QuoteTTL)
		if q.Simulated {
			log.Printf("[WARN] collect %s: no live quote, skipping", sym.Code)
			skipped++
			continue
		}
		if err := c.Store.UpsertClose(sym.Code, date, q.CurrentPrice, q.Volume); err != nil {
			log.Printf("[ERROR] collect %s: %v", sym.Code, err)
			skipped++
			continue
		}
		stored++
	}

	log.Printf("[INFO] collect done: %d stored, %d skipped", stored, skipped)
	return nil
}
