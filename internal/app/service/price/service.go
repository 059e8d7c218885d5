package price

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hodlflow/stacker/pkg/config"
	"github.com/hodlflow/stacker/pkg/logctx"
)

// ErrPriceUnavailable is returned when the fetch fails and no cached
// snapshot exists to fall back to.
var ErrPriceUnavailable = errors.New("price unavailable")

const (
	// SourceBinance marks a freshly fetched price.
	SourceBinance = "binance"
	// SourceCache marks a stale snapshot served after a failed fetch.
	SourceCache = "cache"
)

// Snapshot is the reference price for the tracked symbol at Timestamp.
// Source records provenance: live quote or stale-served cache.
type Snapshot struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
}

// Quoter fetches the spot price for a symbol from an external quote source.
type Quoter interface {
	FetchSpot(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// Service serves the current reference price for one symbol, shielding
// callers from upstream latency and failure with a single cached slot.
// A snapshot younger than the freshness window is served without any
// external call; a failed fetch falls back to the previous snapshot
// regardless of its age.
type Service struct {
	cfg    *config.Config
	log    *zap.SugaredLogger
	quoter Quoter
	ttl    time.Duration

	mu   sync.Mutex
	snap *Snapshot
}

func NewService(cfg *config.Config, log *zap.SugaredLogger, quoter Quoter) *Service {
	ttl := cfg.Price.TTL()
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &Service{cfg: cfg, log: log, quoter: quoter, ttl: ttl}
}

// GetPrice returns the cached snapshot when fresh, otherwise attempts one
// fetch. No retry loop: a single failed attempt falls back to cache-or-error.
func (s *Service) GetPrice(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.snap != nil && now.Sub(s.snap.Timestamp) < s.ttl {
		snap := *s.snap
		return &snap, nil
	}

	symbol := s.cfg.Price.Symbol
	p, err := s.quoter.FetchSpot(ctx, symbol)
	if err != nil {
		if s.snap != nil {
			logctx.FromCtx(ctx, s.log).Warnw("price fetch failed, serving stale snapshot",
				"symbol", symbol, "age_s", now.Sub(s.snap.Timestamp).Seconds(), "err", err)
			snap := *s.snap
			snap.Source = SourceCache
			return &snap, nil
		}
		logctx.FromCtx(ctx, s.log).Errorw("price fetch failed with empty cache", "symbol", symbol, "err", err)
		return nil, ErrPriceUnavailable
	}

	s.snap = &Snapshot{Symbol: symbol, Price: p, Timestamp: now, Source: SourceBinance}
	snap := *s.snap
	return &snap, nil
}

// ClearCache empties the slot. Used for test isolation and forced refresh.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = nil
}
