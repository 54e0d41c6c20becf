package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xmazu/cl-agent/internal/config"
	"github.com/xmazu/cl-agent/internal/keystore"
	"github.com/xmazu/cl-agent/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:           "cla [PROMPT]",
	Short:         "A CLI agent that uses MCP",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `cla - send prompts to an agent from the command line and keep the API keys it needs.

Running cla without a subcommand is the same as ` + "`cla run`" + `.

PROMPTS:

  cla "Hello, agent!"
  echo "Hello, agent!" | cla
  git diff | cla "Review this change:"
  cla                       # opens $VISUAL / $EDITOR

KEYS:

  cla keys set openai
  export OPENAI_API_KEY="$(cla keys get openai)"
  cla keys list

Keys live in keys.json inside the cl-agent config directory
(override with CLA_USER_PATH; see ` + "`cla keys path`" + `).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.SetVersionTemplate("cli, version {{.Version}}\n")
}

// SetVersion sets the version string shown by --version (e.g. from ldflags).
func SetVersion(v string) { rootCmd.Version = v }

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", tui.Error("Error:"), err)
		os.Exit(1)
	}
}

func warn(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", tui.Warning("Warning:"), msg)
}

// configDir resolves (and creates) the directory for this invocation. It is
// not cached: every command asks again.
func configDir() (string, error) {
	return config.NewResolver().Resolve()
}

func openStore(cmd *cobra.Command) (*keystore.Store, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return keystore.New(dir, keystore.WithWarn(func(msg string) { warn(cmd, msg) })), nil
}
