package stackctl

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// buildRootCmd constructs the tree with environment-driven defaults.
func buildRootCmd() *cobra.Command {
	return buildRootCmdWith(&Config{
		ComposeFile: envStr("STACKCTL_COMPOSE_FILE", defaultComposeFile),
		EnvFile:     defaultEnvFile,
		EnvTemplate: defaultEnvTemplate,
		Project:     envStr("STACKCTL_PROJECT", defaultProject),
		LogLvl:      envStr("STACKCTL_LOG_LEVEL", "info"),
	})
}

// CobraMain executes the command tree and returns an exit code for use by
// cmd/stackctl. Unknown flags and commands surface as an error plus usage on
// stderr; help exits zero without side effects.
func CobraMain() int {
	root := buildRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		fmt.Fprint(os.Stderr, root.UsageString())
		return 1
	}
	return 0
}

// buildRootCmdWith constructs a Cobra command tree wired to the existing fn* actions.
func buildRootCmdWith(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "stackctl",
		Short:         "Lifecycle commands for the Prometheus + Ollama demo stack",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags -> Config
	root.PersistentFlags().StringVar(&cfg.ComposeFile, "compose-file", cfg.ComposeFile, "Compose topology file (defaults STACKCTL_COMPOSE_FILE or docker-compose.yml)")
	root.PersistentFlags().StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "Environment file bootstrapped on first run")
	root.PersistentFlags().StringVar(&cfg.EnvTemplate, "env-template", cfg.EnvTemplate, "Template the env file is seeded from")
	root.PersistentFlags().StringVar(&cfg.Project, "project", cfg.Project, "Image naming prefix for project-owned images")
	root.PersistentFlags().StringVar(&cfg.LogLvl, "log-level", cfg.LogLvl, "Log level: debug|info|warn|error (defaults STACKCTL_LOG_LEVEL or info)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := normalizePaths(cfg); err != nil {
			return err
		}
		SetLogLevel(cfg.LogLvl)
		return nil
	}

	installCmd := &cobra.Command{
		Use:     "install",
		Short:   "Bootstrap the env file, pull images and ensure the model",
		Example: "  stackctl install\n  stackctl install --skip-model-pull",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			skip, _ := cmd.Flags().GetBool("skip-model-pull")
			return fnInstall(cfg, skip)
		},
	}
	installCmd.Flags().BoolP("skip-model-pull", "s", false, "Skip starting the inference host and pulling the model")

	resetCmd := &cobra.Command{
		Use:     "reset",
		Short:   "Destructive full recycle: down -v, remove images, rebuild, up -d",
		Example: "  stackctl reset\n  stackctl reset --skip-model-pull",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			skip, _ := cmd.Flags().GetBool("skip-model-pull")
			return fnReset(cfg, skip)
		},
	}
	resetCmd.Flags().Bool("skip-model-pull", false, "Skip starting the inference host and pulling the model")

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check host prerequisites and the compose topology",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return fnVerify(cfg) },
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the container table and probe service endpoints",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return fnStatus(cfg) },
	}

	root.AddCommand(installCmd, resetCmd, verifyCmd, statusCmd)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(os.Stdout, true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenPowerShellCompletionWithDesc(os.Stdout) }})
	root.AddCommand(completionCmd)

	return root
}
