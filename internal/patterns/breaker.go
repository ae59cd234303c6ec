package patterns

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/sony/gobreaker"
)

// BreakerStore wraps a Store behind a circuit breaker, so that a failing
// Postgres pattern store degrades the coordinator's learned-pattern
// recall to empty (via PatternProvider's nil-tolerant contract) instead
// of blocking every extraction request on repeated connection timeouts.
type BreakerStore struct {
	inner   Store
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerStore wraps inner with a breaker named name. Settings mirror
// the conservative defaults used for the classifier's commercial
// knowledge-base clients: trip once at least 3 requests have been seen
// and 60% of them failed, reopen to half-open after timeout.
func NewBreakerStore(name string, inner Store, timeout time.Duration) *BreakerStore {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	})
	return &BreakerStore{inner: inner, breaker: breaker}
}

func (b *BreakerStore) ListAll(ctx context.Context) ([]domain.LearnedPattern, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.ListAll(ctx)
	})
	if err != nil {
		return nil, breakerErr(err)
	}
	return result.([]domain.LearnedPattern), nil
}

func (b *BreakerStore) FilterByField(ctx context.Context, field string) ([]domain.LearnedPattern, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.FilterByField(ctx, field)
	})
	if err != nil {
		return nil, breakerErr(err)
	}
	return result.([]domain.LearnedPattern), nil
}

// FilterByPathology degrades to an empty, non-error result when the
// breaker is open: the coordinator's PatternProvider contract treats an
// empty pattern set as ordinary pattern-store-unavailable degradation,
// not a hard extraction failure.
func (b *BreakerStore) FilterByPathology(ctx context.Context, types []domain.PathologyType) ([]domain.LearnedPattern, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.FilterByPathology(ctx, types)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return nil, nil
		}
		return nil, breakerErr(err)
	}
	return result.([]domain.LearnedPattern), nil
}

func (b *BreakerStore) Insert(ctx context.Context, pattern *domain.LearnedPattern) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.inner.Insert(ctx, pattern)
	})
	return breakerErr(err)
}

func (b *BreakerStore) UpdateConfidence(ctx context.Context, id int64, confidence float64) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.inner.UpdateConfidence(ctx, id, confidence)
	})
	return breakerErr(err)
}

func (b *BreakerStore) Delete(ctx context.Context, id int64) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.inner.Delete(ctx, id)
	})
	return breakerErr(err)
}

func (b *BreakerStore) Snapshot(ctx context.Context, id int64) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.inner.Snapshot(ctx, id)
	})
	return breakerErr(err)
}

func (b *BreakerStore) Rollback(ctx context.Context, id int64, versionIndex int) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.inner.Rollback(ctx, id, versionIndex)
	})
	return breakerErr(err)
}

func (b *BreakerStore) ExportJSON(ctx context.Context, w io.Writer) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.inner.ExportJSON(ctx, w)
	})
	return breakerErr(err)
}

func (b *BreakerStore) ImportJSON(ctx context.Context, r io.Reader) (imported, skipped int, err error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		imp, skp, innerErr := b.inner.ImportJSON(ctx, r)
		return [2]int{imp, skp}, innerErr
	})
	if err != nil {
		return 0, 0, breakerErr(err)
	}
	counts := result.([2]int)
	return counts[0], counts[1], nil
}

// State reports the breaker's current state, for health endpoints.
func (b *BreakerStore) State() gobreaker.State {
	return b.breaker.State()
}

func breakerErr(err error) error {
	if err == nil {
		return nil
	}
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return fmt.Errorf("pattern store unavailable: %w", err)
	}
	return err
}

var _ Store = (*BreakerStore)(nil)
