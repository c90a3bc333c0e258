package translation

import (
	"context"
	"log/slog"
)

// Attempt is one way of producing a value: a named operation that may fail.
type Attempt[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// RunWithDegrade tries each attempt in order and returns the first
// success. When every attempt fails (or none were given), it returns
// degrade(lastErr) with degraded=true; the last error is returned
// alongside so the caller can flag or log it.
//
// This is the single try-remote-then-degrade-but-always-answer helper:
// the provider chain uses it to fall through to the local heuristic,
// and the evaluator reuses it one layer up to collapse whole-pipeline
// failures into a usable verdict.
func RunWithDegrade[T any](
	ctx context.Context,
	logger *slog.Logger,
	operation string,
	attempts []Attempt[T],
	degrade func(err error) T,
) (value T, degraded bool, lastErr error) {
	for _, attempt := range attempts {
		v, err := attempt.Run(ctx)
		if err == nil {
			return v, false, nil
		}
		lastErr = err
		logger.WarnContext(ctx, "attempt failed, falling through",
			"operation", operation,
			"attempt", attempt.Name,
			"error", err)
	}

	logger.InfoContext(ctx, "all attempts failed, degrading",
		"operation", operation,
		"attempts", len(attempts))
	return degrade(lastErr), true, lastErr
}
