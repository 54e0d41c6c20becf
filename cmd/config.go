package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xmazu/cl-agent/internal/config"
	"github.com/xmazu/cl-agent/internal/storage"
	"github.com/xmazu/cl-agent/internal/tui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cl-agent settings",
	Long:  `Manage user settings stored in settings.yaml in the cl-agent config directory.`,
}

var configEditorCmd = &cobra.Command{
	Use:   "editor [COMMAND]",
	Short: "Show or set the editor used for prompts",
	Long: `Show or set the editor used when no prompt is given.

$VISUAL and $EDITOR still take precedence over this setting.

Examples:
  cla config editor
  cla config editor "code --wait"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigEditor,
}

func init() {
	configCmd.AddCommand(configEditorCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigEditor(cmd *cobra.Command, args []string) error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	settings, err := loadSettings(cmd, dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		if settings.Editor == "" {
			fmt.Fprintln(out, tui.Muted("No editor set"))
			return nil
		}
		fmt.Fprintln(out, settings.Editor)
		return nil
	}

	if args[0] == "" {
		return fmt.Errorf("editor command must not be empty")
	}
	settings.Editor = args[0]
	if err := config.SaveSettings(dir, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Fprintf(out, "%s Editor has been set to '%s'\n", tui.Success("✓"), settings.Editor)
	return nil
}

// loadSettings reads settings.yaml, warning about and ignoring a corrupt file.
func loadSettings(cmd *cobra.Command, dir string) (config.Settings, error) {
	settings, err := config.LoadSettings(dir)
	if err != nil {
		var perr *storage.ParseError
		if !errors.As(err, &perr) {
			return config.Settings{}, fmt.Errorf("load settings: %w", err)
		}
		warn(cmd, fmt.Sprintf("Settings file at %s is corrupt. Ignoring it.", perr.Path))
	}
	return settings, nil
}
