package stackctl

import (
	"context"
	"fmt"
)

// step is one unit of the lifecycle pipeline. Steps run strictly in order;
// a failing step aborts the remainder unless it is marked tolerant, in which
// case the failure is logged and the pipeline continues. Tolerant steps cover
// the "precondition already satisfied" cases (nothing to tear down, image
// already absent) that must not abort a legitimate first run.
type step struct {
	name     string
	tolerant bool
	run      func(ctx context.Context) error
}

func runSteps(ctx context.Context, steps []step) error {
	for _, s := range steps {
		debug("step %q starting", s.name)
		if err := s.run(ctx); err != nil {
			if s.tolerant {
				warn("step %q failed (tolerated): %v", s.name, err)
				continue
			}
			return fmt.Errorf("step %q: %w", s.name, err)
		}
	}
	return nil
}
