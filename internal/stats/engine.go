// Package stats computes reporting aggregates over closed time
// records: per-task totals, ranged sums, and bucketed time series for
// charts. Open records are invisible here; only frozen durations count.
package stats

import (
	"context"
	"time"

	"github.com/xolan/grind/internal/ledger"
	"github.com/xolan/grind/internal/timeutil"
)

// Engine answers statistics queries against the ledger.
type Engine struct {
	store *ledger.Store
}

// New creates an Engine over the given store.
func New(store *ledger.Store) *Engine {
	return &Engine{store: store}
}

// TaskStatistics returns per-task record counts and total tracked
// seconds across all non-deleted tasks, busiest first.
func (e *Engine) TaskStatistics(ctx context.Context) ([]ledger.TaskStatistics, error) {
	return e.store.TaskStatistics(ctx)
}

// DurationInRange sums the frozen durations of records started within
// [start, end] inclusive. A record contributes its whole duration to
// the range its start falls in, even when it ends outside it.
func (e *Engine) DurationInRange(ctx context.Context, start, end time.Time) (int64, error) {
	records, err := e.store.ListTimeRecords(ctx, ledger.RecordFilter{From: &start, To: &end})
	if err != nil {
		return 0, err
	}
	return sumDurations(records), nil
}

// SeriesPoint is one bucket of a reporting chart.
type SeriesPoint struct {
	Label string
	Hours float64
}

// BucketedSeries partitions the period into chart buckets and sums the
// tracked hours per bucket: 24 hourly points for a day, one per day for
// weeks and months, 12 monthly points for a year. Records land in the
// bucket containing their start time, so the points sum to the
// period's DurationInRange.
func (e *Engine) BucketedSeries(ctx context.Context, period timeutil.Period, now time.Time) ([]SeriesPoint, error) {
	buckets := period.Buckets(now)
	if len(buckets) == 0 {
		return nil, nil
	}

	from := buckets[0].Start
	to := buckets[len(buckets)-1].End
	records, err := e.store.ListTimeRecords(ctx, ledger.RecordFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	points := make([]SeriesPoint, len(buckets))
	for i, b := range buckets {
		var seconds int64
		for _, rec := range records {
			if rec.Duration == nil {
				continue
			}
			if timeutil.IsInRange(rec.StartTime, b.Start, b.End) {
				seconds += *rec.Duration
			}
		}
		points[i] = SeriesPoint{Label: b.Label, Hours: float64(seconds) / 3600.0}
	}
	return points, nil
}

// TaskDurationInRange sums one task's frozen durations for records
// started within [start, end] inclusive.
func (e *Engine) TaskDurationInRange(ctx context.Context, taskID int64, start, end time.Time) (int64, error) {
	records, err := e.store.ListTimeRecords(ctx, ledger.RecordFilter{TaskID: taskID, From: &start, To: &end})
	if err != nil {
		return 0, err
	}
	return sumDurations(records), nil
}

func sumDurations(records []ledger.TimeRecord) int64 {
	var total int64
	for _, rec := range records {
		if rec.Duration != nil {
			total += *rec.Duration
		}
	}
	return total
}
