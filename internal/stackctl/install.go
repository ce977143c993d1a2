package stackctl

import "context"

// installStack performs the idempotent first-run setup: seed the env file,
// pull every declared image, then make sure the inference model is cached.
// Safe to re-run; converges to the same end state every time.
func installStack(cfg *Config, skipModelPull bool) error {
	ctx := context.Background()
	eng := newEngine(cfg)

	steps := []step{
		{name: "bootstrap env file", run: func(context.Context) error {
			return bootstrapEnvFile(cfg.EnvFile, cfg.EnvTemplate)
		}},
		{name: "pull images", run: func(ctx context.Context) error {
			info("pulling declared images...")
			return eng.Pull(ctx)
		}},
		{name: "ensure model", run: func(ctx context.Context) error {
			return ensureModel(ctx, eng, cfg, skipModelPull)
		}},
	}
	if err := runSteps(ctx, steps); err != nil {
		return err
	}
	info("install complete")
	return nil
}
