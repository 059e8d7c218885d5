package price

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hodlflow/stacker/pkg/config"
)

type fakeQuoter struct {
	calls int
	price decimal.Decimal
	err   error
}

func (f *fakeQuoter) FetchSpot(_ context.Context, _ string) (decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.price, nil
}

func newTestService(q Quoter, ttlSeconds int) *Service {
	cfg := &config.Config{}
	cfg.Price.Symbol = "STRKUSDT"
	cfg.Price.TTLSeconds = ttlSeconds
	return NewService(cfg, zap.NewNop().Sugar(), q)
}

func TestGetPrice_FreshCacheSkipsFetch(t *testing.T) {
	q := &fakeQuoter{price: decimal.RequireFromString("0.52")}
	svc := newTestService(q, 60)

	first, err := svc.GetPrice(context.Background())
	require.NoError(t, err)
	require.Equal(t, SourceBinance, first.Source)
	require.True(t, first.Price.Equal(decimal.RequireFromString("0.52")))

	second, err := svc.GetPrice(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, q.calls, "second call within the freshness window must not fetch")
	require.True(t, second.Price.Equal(first.Price))
}

func TestGetPrice_StaleFallbackAfterFailure(t *testing.T) {
	q := &fakeQuoter{price: decimal.RequireFromString("0.52")}
	svc := newTestService(q, 60)

	_, err := svc.GetPrice(context.Background())
	require.NoError(t, err)

	// age out the snapshot and make the next fetch fail
	svc.mu.Lock()
	svc.snap.Timestamp = time.Now().Add(-2 * time.Minute)
	svc.mu.Unlock()
	q.err = errors.New("upstream down")

	snap, err := svc.GetPrice(context.Background())
	require.NoError(t, err, "a prior snapshot must be served with no error")
	require.Equal(t, SourceCache, snap.Source)
	require.True(t, snap.Price.Equal(decimal.RequireFromString("0.52")))
	require.Equal(t, 2, q.calls)
}

func TestGetPrice_EmptyCacheFailure(t *testing.T) {
	q := &fakeQuoter{err: errors.New("upstream down")}
	svc := newTestService(q, 60)

	_, err := svc.GetPrice(context.Background())
	require.ErrorIs(t, err, ErrPriceUnavailable)
}

func TestClearCache(t *testing.T) {
	q := &fakeQuoter{price: decimal.RequireFromString("0.52")}
	svc := newTestService(q, 60)

	_, err := svc.GetPrice(context.Background())
	require.NoError(t, err)

	svc.ClearCache()

	q.err = errors.New("upstream down")
	_, err = svc.GetPrice(context.Background())
	require.ErrorIs(t, err, ErrPriceUnavailable, "cleared cache must not serve stale data")
	require.Equal(t, 2, q.calls)
}
