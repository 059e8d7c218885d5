package price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hodlflow/stacker/pkg/config"
)

// BinanceQuoter polls the public Binance REST ticker endpoint. No API key
// required. Binance returns the price as a decimal string, so it is parsed
// without passing through a float.
type BinanceQuoter struct {
	http     *http.Client
	endpoint string
	log      *zap.SugaredLogger
}

func NewBinanceQuoter(cfg *config.Config, log *zap.SugaredLogger) Quoter {
	timeout := cfg.Price.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BinanceQuoter{
		http:     &http.Client{Timeout: timeout},
		endpoint: cfg.Price.Endpoint,
		log:      log,
	}
}

type tickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// FetchSpot performs a single GET against the ticker endpoint. A timeout is
// surfaced like any other fetch failure; the caller decides the fallback.
func (q *BinanceQuoter) FetchSpot(ctx context.Context, symbol string) (decimal.Decimal, error) {
	u := fmt.Sprintf("%s?symbol=%s", q.endpoint, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build ticker request: %w", err)
	}

	resp, err := q.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ticker request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("ticker endpoint returned status %d", resp.StatusCode)
	}

	var payload tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode ticker response: %w", err)
	}

	p, err := decimal.NewFromString(payload.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ticker returned invalid price %q: %w", payload.Price, err)
	}
	if p.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("ticker returned non-positive price %s", p)
	}
	return p, nil
}
