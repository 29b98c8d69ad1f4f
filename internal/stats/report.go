// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"

	"github.com/verte-zerg/typesync/internal/model"
)

// Loader yields a newest-first result log.
type Loader interface {
	Load(ctx context.Context) []model.TestResult
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Results []model.TestResult
	Overall Summary
	// Recent summarizes the newest Window results.
	Recent Summary
	Window int
}

// BuildReport loads and prepares data for stats rendering. last limits the
// results considered; zero keeps them all.
func BuildReport(ctx context.Context, src Loader, last, window int) Report {
	results := src.Load(ctx)
	if last > 0 && len(results) > last {
		results = results[:last]
	}
	return Report{
		Results: results,
		Overall: Summarize(results),
		Recent:  Summarize(newest(results, window)),
		Window:  window,
	}
}

func newest(results []model.TestResult, window int) []model.TestResult {
	if window <= 0 || len(results) <= window {
		return results
	}
	return results[:window]
}
