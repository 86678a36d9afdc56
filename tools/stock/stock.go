// Package stock provides the analyze_stock tool: price-history statistics
// over a requested period plus company metadata, sourced from a pluggable
// Provider (Yahoo Finance by default).
package stock

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/calebsh/toolchat/tool"
)

// Bar is one OHLCV observation in a time-ordered price series.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Quote carries static company metadata. MarketCap and PERatio are nil when
// the provider does not report them.
type Quote struct {
	Name      string
	MarketCap *float64
	PERatio   *float64
}

// Provider fetches price history and company metadata for a symbol.
type Provider interface {
	// History returns the OHLCV series for the requested period, oldest
	// first. An empty series means the symbol has no data.
	History(ctx context.Context, symbol, period string) ([]Bar, error)

	// Quote returns company metadata. Failures here are tolerated by the
	// tool: analysis proceeds without metadata.
	Quote(ctx context.Context, symbol string) (Quote, error)
}

// Tool implements tool.Tool for stock analysis. A nil provider is allowed
// and reported as a non-fatal dependency-missing failure at call time.
type Tool struct {
	provider Provider
}

// New creates the stock tool over the given provider.
func New(provider Provider) *Tool {
	return &Tool{provider: provider}
}

// Name implements tool.Tool.
func (t *Tool) Name() string { return "analyze_stock" }

// Description implements tool.Tool.
func (t *Tool) Description() string {
	return "Analyze a stock's recent price trend: latest price, change, volume and period high/low"
}

// Parameters implements tool.Tool.
func (t *Tool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"symbol": map[string]any{
				"type":        "string",
				"description": "Ticker symbol, e.g. AAPL or TSLA",
			},
			"period": map[string]any{
				"type":        "string",
				"enum":        []string{"1d", "5d", "1mo", "3mo", "6mo", "1y"},
				"description": "Analysis window",
				"default":     "1mo",
			},
		},
		"required": []string{"symbol"},
	}
}

// Analysis is the analyze_stock result payload. PeriodHigh and PeriodLow
// cover the fetched window only.
type Analysis struct {
	Symbol             string   `json:"symbol"`
	CompanyName        string   `json:"company_name"`
	CurrentPrice       float64  `json:"current_price"`
	PriceChange        float64  `json:"price_change"`
	PriceChangePercent float64  `json:"price_change_percent"`
	Volume             int64    `json:"volume"`
	MarketCap          *float64 `json:"market_cap,omitempty"`
	PERatio            *float64 `json:"pe_ratio,omitempty"`
	PeriodHigh         float64  `json:"period_high"`
	PeriodLow          float64  `json:"period_low"`
	Period             string   `json:"analysis_period"`
	Timestamp          string   `json:"timestamp"`
}

// Call implements tool.Tool.
func (t *Tool) Call(ctx context.Context, args map[string]any) (any, error) {
	symbol, err := tool.RequireString(args, "symbol")
	if err != nil {
		return nil, err
	}
	period := tool.OptionalString(args, "period", "1mo")

	if t.provider == nil {
		return nil, fmt.Errorf("stock data provider not configured")
	}

	bars, err := t.provider.History(ctx, symbol, period)
	if err != nil {
		return nil, fmt.Errorf("stock analysis failed: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no price data found for symbol %s", symbol)
	}

	latest := bars[len(bars)-1]
	analysis := Analysis{
		Symbol:       symbol,
		CompanyName:  symbol,
		CurrentPrice: round2(latest.Close),
		Volume:       latest.Volume,
		PeriodHigh:   round2(maxHigh(bars)),
		PeriodLow:    round2(minLow(bars)),
		Period:       period,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}

	if len(bars) >= 2 {
		prior := bars[len(bars)-2].Close
		analysis.PriceChange = round2(latest.Close - prior)
		if prior != 0 {
			analysis.PriceChangePercent = round2((latest.Close - prior) / prior * 100)
		}
	}

	// Metadata is decoration; a quote failure never fails the analysis.
	if quote, err := t.provider.Quote(ctx, symbol); err == nil {
		if quote.Name != "" {
			analysis.CompanyName = quote.Name
		}
		analysis.MarketCap = quote.MarketCap
		analysis.PERatio = quote.PERatio
	}

	return analysis, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func maxHigh(bars []Bar) float64 {
	m := bars[0].High
	for _, b := range bars[1:] {
		if b.High > m {
			m = b.High
		}
	}
	return m
}

func minLow(bars []Bar) float64 {
	m := bars[0].Low
	for _, b := range bars[1:] {
		if b.Low < m {
			m = b.Low
		}
	}
	return m
}
