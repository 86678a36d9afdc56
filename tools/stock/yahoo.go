package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooConfig holds settings for the Yahoo Finance provider.
type YahooConfig struct {
	BaseURL string        // empty = query1.finance.yahoo.com
	Timeout time.Duration // per-call bound, 0 = 10s
}

// YahooProvider implements Provider against the public Yahoo Finance chart
// and quote endpoints.
type YahooProvider struct {
	cfg    YahooConfig
	client *http.Client
}

// NewYahooProvider creates a Yahoo Finance backed provider.
func NewYahooProvider(cfg YahooConfig) *YahooProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultYahooBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &YahooProvider{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History implements Provider using the v8 chart endpoint. Bars with a
// missing close (Yahoo emits nulls for halted intervals) are skipped.
func (p *YahooProvider) History(ctx context.Context, symbol, period string) ([]Bar, error) {
	query := url.Values{}
	query.Set("range", period)
	query.Set("interval", "1d")

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", p.cfg.BaseURL, url.PathEscape(symbol), query.Encode())
	var data chartResponse
	if err := p.getJSON(ctx, endpoint, &data); err != nil {
		return nil, err
	}

	if data.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error: %s: %s", data.Chart.Error.Code, data.Chart.Error.Description)
	}
	if len(data.Chart.Result) == 0 || len(data.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := data.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := Bar{Time: time.Unix(ts, 0).UTC(), Close: *quote.Close[i]}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			LongName   string   `json:"longName"`
			ShortName  string   `json:"shortName"`
			MarketCap  *float64 `json:"marketCap"`
			TrailingPE *float64 `json:"trailingPE"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// Quote implements Provider using the v7 quote endpoint.
func (p *YahooProvider) Quote(ctx context.Context, symbol string) (Quote, error) {
	query := url.Values{}
	query.Set("symbols", symbol)

	endpoint := fmt.Sprintf("%s/v7/finance/quote?%s", p.cfg.BaseURL, query.Encode())
	var data quoteResponse
	if err := p.getJSON(ctx, endpoint, &data); err != nil {
		return Quote{}, err
	}
	if len(data.QuoteResponse.Result) == 0 {
		return Quote{}, fmt.Errorf("no quote data for symbol %s", symbol)
	}

	r := data.QuoteResponse.Result[0]
	name := r.LongName
	if name == "" {
		name = r.ShortName
	}
	return Quote{Name: name, MarketCap: r.MarketCap, PERatio: r.TrailingPE}, nil
}

func (p *YahooProvider) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("yahoo request failed: %w", err)
	}
	// Yahoo rejects requests without a browser-ish user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; toolchat/1.0)")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("yahoo returned %s: %s", resp.Status, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("yahoo response malformed: %w", err)
	}
	return nil
}
