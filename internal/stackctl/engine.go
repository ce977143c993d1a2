package stackctl

import (
	"context"
	"strings"
)

// Engine is the narrow slice of the container-orchestration surface the
// lifecycle commands depend on. The production implementation shells out to
// docker / docker compose; tests substitute a recording stub.
type Engine interface {
	// Pull fetches every image declared in the compose topology.
	Pull(ctx context.Context) error
	// Build rebuilds all project-owned images. When noCache is true the
	// layer cache is bypassed so the result reflects the current source.
	Build(ctx context.Context, noCache bool) error
	// Up starts the named services detached, or the whole stack when no
	// services are given. It does not wait for readiness.
	Up(ctx context.Context, services ...string) error
	// Down stops and removes containers, named volumes and orphans.
	Down(ctx context.Context) error
	// ListImages returns locally cached image references whose repository
	// begins with prefix.
	ListImages(ctx context.Context, prefix string) ([]string, error)
	// RemoveImage force-removes one image reference.
	RemoveImage(ctx context.Context, ref string) error
	// Exec runs a command inside a running service container.
	Exec(ctx context.Context, service string, cmd ...string) error
	// PS prints the current container table for the project.
	PS(ctx context.Context) error
}

// composeEngine drives docker compose for a single compose file.
type composeEngine struct {
	composeFile string
}

// newEngine builds the production engine. Indirection var so tests can
// substitute a stub without touching a real daemon.
var newEngine = func(cfg *Config) Engine {
	return &composeEngine{composeFile: cfg.ComposeFile}
}

func (e *composeEngine) compose(args ...string) []string {
	base := []string{"compose"}
	if e.composeFile != "" {
		base = append(base, "-f", e.composeFile)
	}
	return append(base, args...)
}

func (e *composeEngine) Pull(ctx context.Context) error {
	return runCmdVerbose(ctx, "docker", e.compose("pull")...)
}

func (e *composeEngine) Build(ctx context.Context, noCache bool) error {
	args := []string{"build"}
	if noCache {
		args = append(args, "--no-cache")
	}
	return runCmdVerbose(ctx, "docker", e.compose(args...)...)
}

func (e *composeEngine) Up(ctx context.Context, services ...string) error {
	args := append([]string{"up", "-d"}, services...)
	return runCmdVerbose(ctx, "docker", e.compose(args...)...)
}

func (e *composeEngine) Down(ctx context.Context) error {
	return runCmdVerbose(ctx, "docker", e.compose("down", "-v", "--remove-orphans")...)
}

func (e *composeEngine) ListImages(ctx context.Context, prefix string) ([]string, error) {
	out, err := runCmdCapture(ctx, "docker", "images",
		"--format", "{{.Repository}}:{{.Tag}}",
		"--filter", "reference="+prefix+"*")
	if err != nil {
		return nil, err
	}
	var refs []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasSuffix(line, ":<none>") {
			continue
		}
		refs = append(refs, line)
	}
	return refs, nil
}

func (e *composeEngine) RemoveImage(ctx context.Context, ref string) error {
	return runCmdVerbose(ctx, "docker", "rmi", "-f", ref)
}

func (e *composeEngine) Exec(ctx context.Context, service string, cmd ...string) error {
	args := append([]string{"exec", "-T", service}, cmd...)
	return runCmdVerbose(ctx, "docker", e.compose(args...)...)
}

func (e *composeEngine) PS(ctx context.Context) error {
	return runCmdVerbose(ctx, "docker", e.compose("ps")...)
}
