package domain

import "context"

// WriteResult reports the outcome of a best-effort cache write.
// Callers log it; it is never returned as an error.
type WriteResult struct {
	Backend string
	Err     error
}

func (r WriteResult) OK() bool { return r.Err == nil }

// PostCache stores the last fetched post sequence per window label.
// Get treats any read failure as a miss.
type PostCache interface {
	Get(ctx context.Context, window Window) ([]Post, bool)
	Set(ctx context.Context, window Window, posts []Post) WriteResult
}
