package stackctl

import (
	"context"
	"fmt"
	"os/exec"

	"promstack/internal/common/fsutil"
)

// verifyStack checks host prerequisites and the topology without mutating
// anything: docker and the compose plugin respond, the compose file parses
// and declares the inference service, and the env template exists so a first
// install can bootstrap.
func verifyStack(cfg *Config) error {
	ctx := context.Background()

	if _, err := exec.LookPath("docker"); err != nil {
		return fmt.Errorf("docker not found in PATH: %w", err)
	}
	if err := runCmdVerbose(ctx, "docker", "--version"); err != nil {
		return fmt.Errorf("docker --version failed: %w", err)
	}
	if err := runCmdVerbose(ctx, "docker", "compose", "version"); err != nil {
		return fmt.Errorf("docker compose plugin not available: %w", err)
	}

	topo, err := LoadTopology(cfg.ComposeFile)
	if err != nil {
		return fmt.Errorf("compose topology: %w", err)
	}
	if !topo.HasService(ollamaService) {
		return fmt.Errorf("%s does not declare the %q service", cfg.ComposeFile, ollamaService)
	}
	info("topology ok: %d services, %d built from source",
		len(topo.Services), len(topo.BuiltServices()))

	if !fsutil.PathExists(cfg.EnvTemplate) {
		return fmt.Errorf("env template %s missing; first install cannot bootstrap", cfg.EnvTemplate)
	}
	if fsutil.PathExists(cfg.EnvFile) {
		info("env file %s present (model: %s)", cfg.EnvFile,
			lookupEnvKey(cfg.EnvFile, modelKey, defaultModel))
	} else {
		info("env file %s absent; install will seed it from %s", cfg.EnvFile, cfg.EnvTemplate)
	}
	info("verify ok")
	return nil
}
