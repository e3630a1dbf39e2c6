package ports

import (
	"context"

	"graylogsync/internal/core/domain"
)

type Reconciler interface {
	Run(ctx context.Context) (*domain.Summary, error)
}

// Reporter receives every per-user result as it is decided. Implementations
// must not affect control flow.
type Reporter interface {
	Report(result domain.UserResult)
}

// MetricsRecorder is fed the final summary of a run.
type MetricsRecorder interface {
	RecordRun(summary *domain.Summary, err error)
}
