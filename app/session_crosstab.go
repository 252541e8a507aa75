package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"pivotline/app/cache"
	"pivotline/app/crosstab"
)

// AggregateEvent is delivered once per AggregateAsync call.
type AggregateEvent struct {
	// Version is the session version the result was computed from.
	Version int64
	Result  *crosstab.Result
	Err     error
}

// Aggregate builds a crosstab over the filtered rows. Date columns are
// detected on the unfiltered table so the choice does not shift as filters
// narrow the data. Results are cached per session version and shared between
// callers, so they must not be modified.
func (s *Session) Aggregate(ctx context.Context, req crosstab.Request) (*crosstab.Result, error) {
	_, res, err := s.aggregate(ctx, req)
	return res, err
}

func (s *Session) aggregate(ctx context.Context, req crosstab.Request) (int64, *crosstab.Result, error) {
	s.mu.RLock()
	version := s.version.Load()
	full, filtered, err := s.snapshot()
	s.mu.RUnlock()
	if err != nil {
		return version, nil, err
	}

	key := cache.Key(version, "crosstab", req.XColumn, req.YColumn,
		strconv.FormatBool(req.MonthlyConversion), strconv.FormatBool(req.IncludeAllMonths))
	if res, ok := s.results.Get(key); ok {
		return version, res, nil
	}

	req.Reference = full
	res, err := crosstab.NewAggregator(s.logger).Aggregate(ctx, filtered, req)
	switch {
	case errors.Is(err, crosstab.ErrNoData):
		s.Log("info", fmt.Sprintf("[CROSSTAB] %s x %s: no data in %d filtered rows", req.XColumn, req.YColumn, filtered.Len()))
	case err != nil:
		s.Log("warn", fmt.Sprintf("[CROSSTAB] %s x %s failed: %v", req.XColumn, req.YColumn, err))
	default:
		s.results.RemoveBefore(version)
		s.results.Put(key, res)
	}
	return version, res, err
}

// CacheStats reports how often Aggregate was answered from the result cache.
func (s *Session) CacheStats() cache.Stats {
	return s.results.Stats()
}

// AggregateAsync runs Aggregate on its own goroutine. The returned channel
// yields exactly one event and is then closed. Cancelling ctx stops the
// aggregation between row batches and delivers ctx's error.
func (s *Session) AggregateAsync(ctx context.Context, req crosstab.Request) <-chan AggregateEvent {
	out := make(chan AggregateEvent, 1)
	go func() {
		defer close(out)
		version, res, err := s.aggregate(ctx, req)
		if err == nil && !s.IsCurrent(version) {
			s.Log("debug", fmt.Sprintf("[CROSSTAB] result for version %d is stale (now %d)", version, s.Version()))
		}
		out <- AggregateEvent{Version: version, Result: res, Err: err}
	}()
	return out
}
