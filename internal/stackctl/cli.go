package stackctl

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"promstack/internal/common/fsutil"
)

// Config carries the handful of knobs shared by every lifecycle command.
type Config struct {
	ComposeFile string // compose topology path
	EnvFile     string // local environment file, bootstrapped on first run
	EnvTemplate string // template the env file is seeded from
	Project     string // image naming prefix for project-owned images
	LogLvl      string
}

// Defaults mirrored by the persistent cobra flags.
const (
	defaultComposeFile = "docker-compose.yml"
	defaultEnvFile     = ".env"
	defaultEnvTemplate = ".env.example"
	defaultProject     = "promstack"

	// ollamaService is the compose service hosting the inference models.
	ollamaService = "ollama"

	// modelKey is the env-file key naming the model to ensure; defaultModel
	// is used when the key is absent or empty.
	modelKey     = "LLAMA_MODEL"
	defaultModel = "llama3.2:1b"
)

func usage() { usageTo(os.Stdout) }

func usageTo(w io.Writer) {
	fmt.Fprintln(w, "Usage: stackctl [--compose-file F] [--project P] [--log-level info] <command>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  install [--skip-model-pull|-s]   bootstrap .env, pull images, ensure model")
	fmt.Fprintln(w, "  reset [--skip-model-pull]        full recycle: down -v, remove images, pull,")
	fmt.Fprintln(w, "                                   rebuild --no-cache, up -d, ensure model")
	fmt.Fprintln(w, "  verify                           check host prerequisites and topology")
	fmt.Fprintln(w, "  status                           show container table and service probes")
}

// usageError marks an argument error, distinguishing it from a failed
// action so MainWithArgs knows when to print usage.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// Run dispatches the CLI command. It returns an error instead of exiting,
// enabling reuse from other packages or tests.
func Run(args []string, cfg *Config) error {
	switch args[0] {
	case "install":
		skip := false
		for _, a := range args[1:] {
			switch a {
			case "--skip-model-pull", "-s":
				skip = true
			default:
				return usageErrorf("unknown install argument: %s", a)
			}
		}
		return fnInstall(cfg, skip)
	case "reset":
		skip := false
		for _, a := range args[1:] {
			switch a {
			case "--skip-model-pull":
				skip = true
			default:
				return usageErrorf("unknown reset argument: %s", a)
			}
		}
		return fnReset(cfg, skip)
	case "verify":
		if len(args) > 1 {
			return usageErrorf("unknown verify argument: %s", args[1])
		}
		return fnVerify(cfg)
	case "status":
		if len(args) > 1 {
			return usageErrorf("unknown status argument: %s", args[1])
		}
		return fnStatus(cfg)
	default:
		return usageErrorf("unknown command: %s", args[0])
	}
}

func ParseConfig() (*Config, []string, error) {
	return ParseConfigWith(flag.NewFlagSet("stackctl", flag.ContinueOnError), os.Args[1:])
}

// ParseConfigWith parses flags using the provided FlagSet and args slice.
// This enables tests to inject their own FlagSet and arguments without
// mutating global state.
func ParseConfigWith(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	cfg := &Config{}
	fs.StringVar(&cfg.ComposeFile, "compose-file", envStr("STACKCTL_COMPOSE_FILE", defaultComposeFile), "Compose topology file")
	fs.StringVar(&cfg.EnvFile, "env-file", defaultEnvFile, "Environment file bootstrapped on first run")
	fs.StringVar(&cfg.EnvTemplate, "env-template", defaultEnvTemplate, "Template the env file is seeded from")
	fs.StringVar(&cfg.Project, "project", envStr("STACKCTL_PROJECT", defaultProject), "Image naming prefix for project-owned images")
	fs.StringVar(&cfg.LogLvl, "log-level", envStr("STACKCTL_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if err := normalizePaths(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

// normalizePaths expands a leading '~' in the file-path knobs so the CLI can
// be pointed at a stack checkout under the user's home directory.
func normalizePaths(cfg *Config) error {
	for _, p := range []*string{&cfg.ComposeFile, &cfg.EnvFile, &cfg.EnvTemplate} {
		expanded, err := fsutil.ExpandHome(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// MainWithArgs is a testable variant of Main that accepts args explicitly.
// It returns an exit code (0 for success, non-zero on error).
func MainWithArgs(args []string) int {
	// If user explicitly asks for help, print usage and exit 0 before any
	// side effect is attempted.
	for _, a := range args {
		if a == "-h" || a == "--help" || a == "help" {
			usage()
			return 0
		}
	}
	fs := flag.NewFlagSet("stackctl", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	cfg, rest, err := ParseConfigWith(fs, args)
	if err != nil {
		return 1
	}
	if len(rest) == 0 {
		usage()
		return 1
	}
	SetLogLevel(cfg.LogLvl)
	if err := Run(rest, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		var ue *usageError
		if errors.As(err, &ue) {
			usageTo(os.Stderr)
		}
		return 1
	}
	return 0
}

// Main returns an exit code (0 for success, non-zero on error) for use by cmd/stackctl.
func Main() int { return MainWithArgs(os.Args[1:]) }
