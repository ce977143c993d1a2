package stackctl

import "context"

// resetStack performs the destructive full recycle: tear everything down
// (volumes included), drop project-built images, re-pull, rebuild without
// layer cache, bring the stack up detached and ensure the model. Teardown
// steps are tolerant so a first-ever run with nothing to tear down still
// succeeds; in-volume state such as time-series data is lost by design.
func resetStack(cfg *Config, skipModelPull bool) error {
	ctx := context.Background()
	eng := newEngine(cfg)

	steps := []step{
		{name: "teardown", tolerant: true, run: func(ctx context.Context) error {
			info("stopping stack, removing containers, volumes and orphans...")
			return eng.Down(ctx)
		}},
		{name: "remove project images", tolerant: true, run: func(ctx context.Context) error {
			return removeProjectImages(ctx, eng, cfg.Project)
		}},
		{name: "pull images", run: func(ctx context.Context) error {
			info("pulling base images...")
			return eng.Pull(ctx)
		}},
		{name: "build images", run: func(ctx context.Context) error {
			info("rebuilding project images without cache...")
			return eng.Build(ctx, true)
		}},
		{name: "up", run: func(ctx context.Context) error {
			info("starting stack in the background...")
			return eng.Up(ctx)
		}},
		{name: "ensure model", run: func(ctx context.Context) error {
			return ensureModel(ctx, eng, cfg, skipModelPull)
		}},
	}
	if err := runSteps(ctx, steps); err != nil {
		return err
	}
	info("reset complete")
	return nil
}

// removeProjectImages force-removes locally cached images whose repository
// matches the project prefix. Individual removal failures are logged and
// skipped: an image may be held by an unrelated container or already gone.
func removeProjectImages(ctx context.Context, eng Engine, prefix string) error {
	refs, err := eng.ListImages(ctx, prefix)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		info("no images matching %q to remove", prefix)
		return nil
	}
	for _, ref := range refs {
		info("removing image %s", ref)
		if err := eng.RemoveImage(ctx, ref); err != nil {
			warn("could not remove %s: %v", ref, err)
		}
	}
	return nil
}
