package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xmazu/cl-agent/internal/editor"
	"github.com/xmazu/cl-agent/internal/keystore"
	"github.com/xmazu/cl-agent/internal/prompt"
	"github.com/xmazu/cl-agent/internal/scanner"
	"github.com/xmazu/cl-agent/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run [PROMPT]",
	Short: "Send a prompt to the agent",
	Long: `Send a prompt to the agent.

The prompt is taken from, in order:
  - the PROMPT argument
  - stdin, when it is piped or redirected
  - a text editor ($VISUAL, $EDITOR, settings.yaml "editor", then a
    platform default) when neither of the above has any text

If both an argument and piped stdin are given they are joined with a space.
The agent backend is not wired up yet; the prompt is echoed back.

Examples:
  cla run "Hello, agent!"
  echo "Hello, agent!" | cla run
  cla run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

// promptSource overrides the terminal-backed source in tests.
var promptSource prompt.Source

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	var arg string
	if len(args) == 1 {
		arg = args[0]
	}

	src := promptSource
	if src == nil {
		src = &prompt.Terminal{Stdin: os.Stdin, Editor: &configuredEditor{cmd: cmd}}
	}

	text, err := prompt.Resolve(arg, src)
	if err != nil {
		return err
	}

	for _, f := range scanner.Scan(text) {
		warn(cmd, fmt.Sprintf("%s prompt contains what looks like a %s (%s)",
			tui.SeverityTag(f.Pattern.Severity), tui.Label(f.Pattern.Name), keystore.Mask(f.Match)))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Prompt: %s\n", text)
	return nil
}

// configuredEditor defers reading settings.yaml until an editor is actually
// needed, so argument and piped prompts never touch the config directory.
type configuredEditor struct {
	cmd *cobra.Command
}

func (c *configuredEditor) Edit(initial string) (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}

	settings, err := loadSettings(c.cmd, dir)
	if err != nil {
		return "", err
	}

	return editor.New(settings.Editor).Edit(initial)
}
