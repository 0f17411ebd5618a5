package quote

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"BistRadar/internal/model"
)

// YahooProvider fetches intraday quotes from the Yahoo Finance chart
// API. It is the primary provider in the chain.
type YahooProvider struct {
	Suffix string // exchange suffix appended to symbols, e.g. ".IS"
	Client *http.Client
}

// NewYahooProvider creates a Yahoo provider with optional proxy support.
func NewYahooProvider(suffix, proxyURL string) *YahooProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooProvider{
		Suffix: suffix,
		Client: &http.Client{
			Timeout:   12 * time.Second,
			Transport: transport,
		},
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

// yahooChart is the response structure of the Yahoo chart endpoint.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func deref(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// Quote fetches the latest 5-minute bar for symbol and normalizes it.
func (p *YahooProvider) Quote(symbol string) (*model.Quote, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=5m&range=1d",
		url.PathEscape(symbol+p.Suffix))

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d", resp.StatusCode)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	meta := result.Meta

	// Walk backwards to the last filled bar; intraday arrays contain
	// nulls for untraded intervals.
	var last, open, high, low, volume float64
	found := false
	if len(result.Indicators.Quote) > 0 {
		q := result.Indicators.Quote[0]
		for i := len(q.Close) - 1; i >= 0; i-- {
			if q.Close[i] == nil {
				continue
			}
			last = *q.Close[i]
			open = deref(q.Open[i], last)
			high = deref(q.High[i], last)
			low = deref(q.Low[i], last)
			volume = deref(q.Volume[i], 0)
			found = true
			break
		}
	}
	if !found {
		if meta.RegularMarketPrice <= 0 {
			return nil, fmt.Errorf("yahoo: no usable price for %s", symbol)
		}
		last, open, high, low = meta.RegularMarketPrice, meta.RegularMarketPrice,
			meta.RegularMarketPrice, meta.RegularMarketPrice
	}

	prevClose := meta.PreviousClose
	if prevClose == 0 {
		prevClose = meta.ChartPreviousClose
	}
	if prevClose == 0 {
		prevClose = last
	}
	change := last - prevClose
	changePercent := 0.0
	if prevClose != 0 {
		changePercent = change / prevClose * 100
	}

	currency := meta.Currency
	if currency == "" {
		currency = "TRY"
	}

	return &model.Quote{
		Symbol:        symbol,
		CurrentPrice:  last,
		Open:          open,
		High:          high,
		Low:           low,
		Volume:        int64(volume),
		PreviousClose: prevClose,
		Change:        change,
		ChangePercent: changePercent,
		Currency:      currency,
		Source:        p.Name(),
		FetchedAt:     time.Now(),
	}, nil
}
