package usecase

import "context"

// stage is one link of a fallback chain. run reports ok=false to hand over to
// the next stage.
type stage[T any] struct {
	name string
	run  func(ctx context.Context) (T, bool)
}

// runStages returns the output of the first stage that reports ok, with its name.
func runStages[T any](ctx context.Context, stages []stage[T]) (T, string, bool) {
	for _, s := range stages {
		if out, ok := s.run(ctx); ok {
			return out, s.name, true
		}
	}
	var zero T
	return zero, "", false
}
