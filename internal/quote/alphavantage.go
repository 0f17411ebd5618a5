package quote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"BistRadar/internal/model"
)

// AlphaVantageProvider fetches daily global quotes from Alpha Vantage.
// It is the secondary provider, used when the intraday feed fails.
type AlphaVantageProvider struct {
	APIKey string
	Suffix string // exchange suffix, e.g. ".IST"
	Client *http.Client
}

// NewAlphaVantageProvider creates the fallback provider.
func NewAlphaVantageProvider(apiKey, suffix string) *AlphaVantageProvider {
	if apiKey == "" {
		apiKey = "demo"
	}
	return &AlphaVantageProvider{
		APIKey: apiKey,
		Suffix: suffix,
		Client: &http.Client{Timeout: 12 * time.Second},
	}
}

func (p *AlphaVantageProvider) Name() string { return "alphavantage" }

type globalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
	return v
}

// Quote fetches the GLOBAL_QUOTE record for symbol and normalizes it.
func (p *AlphaVantageProvider) Quote(symbol string) (*model.Quote, error) {
	u := fmt.Sprintf("https://www.alphavantage.co/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		url.QueryEscape(symbol+p.Suffix), url.QueryEscape(p.APIKey))

	resp, err := p.Client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: status %d", resp.StatusCode)
	}

	var payload globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	if len(payload.GlobalQuote) == 0 {
		return nil, fmt.Errorf("alphavantage: empty quote for %s", symbol)
	}

	q := payload.GlobalQuote
	price := parseFloat(q["05. price"])
	if price <= 0 {
		return nil, fmt.Errorf("alphavantage: no usable price for %s", symbol)
	}

	return &model.Quote{
		Symbol:        symbol,
		CurrentPrice:  price,
		Open:          parseFloat(q["02. open"]),
		High:          parseFloat(q["03. high"]),
		Low:           parseFloat(q["04. low"]),
		Volume:        int64(parseFloat(q["06. volume"])),
		PreviousClose: parseFloat(q["08. previous close"]),
		Change:        parseFloat(q["09. change"]),
		ChangePercent: parseFloat(q["10. change percent"]),
		Currency:      "TRY",
		Source:        p.Name(),
		FetchedAt:     time.Now(),
	}, nil
}
