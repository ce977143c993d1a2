package stackctl

import (
	"context"
	"fmt"
)

// ensureModel guarantees the named model artifact is cached inside the
// inference host before the run is considered complete. The pull is
// idempotent: re-running after a failure resumes or re-fetches as needed, so
// no partial-artifact cleanup is attempted here.
func ensureModel(ctx context.Context, eng Engine, cfg *Config, skip bool) error {
	if skip {
		info("skipping model pull (--skip-model-pull)")
		return nil
	}
	info("starting %s service...", ollamaService)
	if err := eng.Up(ctx, ollamaService); err != nil {
		return fmt.Errorf("start %s: %w", ollamaService, err)
	}
	model := lookupEnvKey(cfg.EnvFile, modelKey, defaultModel)
	info("ensuring model %q is available...", model)
	if err := eng.Exec(ctx, ollamaService, "ollama", "pull", model); err != nil {
		return fmt.Errorf("pull model %s: %w", model, err)
	}
	info("model %q ready", model)
	return nil
}
