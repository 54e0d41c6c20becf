package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/xmazu/cl-agent/internal/keystore"
	"github.com/xmazu/cl-agent/internal/tui"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys for services used by cl-agent",
	Long: `Manage API keys stored in keys.json in the cl-agent config directory.
The file is readable and writable by you only.`,
}

var keysSetCmd = &cobra.Command{
	Use:   "set NAME",
	Short: "Set an API key with the given name",
	Long: `Set an API key with the given name.

Without --value you are prompted for the key (input is hidden). When stdin
is not a terminal the first line of stdin is used instead.

Example:
  cla keys set openai`,
	Args: cobra.ExactArgs(1),
	RunE: runKeysSet,
}

var keysGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Get the value of a stored API key",
	Long: `Print the value of a stored API key.

Examples:
  cla keys get openai
  export OPENAI_API_KEY="$(cla keys get openai)"`,
	Args: cobra.ExactArgs(1),
	RunE: runKeysGet,
}

var keysListCmd = &cobra.Command{
	Use:   "list [PATTERN]",
	Short: "List all stored API key names",
	Long: `List the names of stored keys in alphabetical order, without values.
PATTERN is a glob such as 'open*' or '{github,gitlab}-*'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKeysList,
}

var keysPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the path to the keys.json file",
	Args:  cobra.NoArgs,
	RunE:  runKeysPath,
}

var keysDeleteCmd = &cobra.Command{
	Use:     "delete NAME",
	Aliases: []string{"rm"},
	Short:   "Delete a stored API key",
	Args:    cobra.ExactArgs(1),
	RunE:    runKeysDelete,
}

var keysExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print all keys as dotenv lines",
	Long: `Print every stored key as NAME="value", one per line, sorted by name.

Example:
  cla keys export > .env`,
	Args: cobra.NoArgs,
	RunE: runKeysExport,
}

var (
	keysSetValue  string
	keysGetMasked bool
)

// stdinIsTerminal is swapped in tests to drive the hidden prompt.
var stdinIsTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func init() {
	keysSetCmd.Flags().StringVar(&keysSetValue, "value", "", "Value to set (prompted for when omitted)")
	keysGetCmd.Flags().BoolVar(&keysGetMasked, "masked", false, "Show a masked value (e.g. ****WXYZ)")

	keysCmd.AddCommand(keysSetCmd)
	keysCmd.AddCommand(keysGetCmd)
	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysPathCmd)
	keysCmd.AddCommand(keysDeleteCmd)
	keysCmd.AddCommand(keysExportCmd)
	rootCmd.AddCommand(keysCmd)
}

func runKeysSet(cmd *cobra.Command, args []string) error {
	name := args[0]

	value, err := readKeyValue(cmd)
	if err != nil {
		return err
	}
	if value == "" {
		return fmt.Errorf("key value must not be empty")
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	if err := store.Set(name, value); err != nil {
		return fmt.Errorf("failed to save key: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Key '%s' has been set\n", tui.Success("✓"), name)
	return nil
}

func readKeyValue(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("value") {
		return keysSetValue, nil
	}

	in := cmd.InOrStdin()
	if stdinIsTerminal(in) {
		return tui.HiddenInput("Enter key")
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read key from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runKeysGet(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}

	value, err := store.Get(args[0])
	if err != nil {
		return err
	}

	if keysGetMasked {
		value = keystore.Mask(value)
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runKeysList(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}

	var names []string
	if len(args) == 1 {
		names, err = store.Match(args[0])
	} else {
		names, err = store.List()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(names) == 0 {
		if len(args) == 1 {
			fmt.Fprintln(out, tui.Muted(fmt.Sprintf("No keys found matching %q", args[0])))
			return nil
		}
		fmt.Fprintln(out, tui.Muted("No keys found"))
		return nil
	}

	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

func runKeysPath(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), store.Path())
	return nil
}

func runKeysDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	if err := store.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Key '%s' has been deleted\n", tui.Success("✓"), args[0])
	return nil
}

func runKeysExport(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	out, err := store.Export()
	if err != nil {
		return err
	}
	if out != "" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	return nil
}
