package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xmazu/cl-agent/internal/config"
	"github.com/xmazu/cl-agent/internal/keystore"
	"github.com/xmazu/cl-agent/internal/tui"
)

func setupConfigDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "test_config")
	t.Setenv(config.UserPathEnv, dir)
	return dir
}

func readKeysJSON(t *testing.T, dir string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, keystore.KeysFileName))
	if err != nil {
		t.Fatalf("read keys file: %v", err)
	}
	var keys map[string]string
	if err := json.Unmarshal(data, &keys); err != nil {
		t.Fatalf("parse keys file: %v", err)
	}
	return keys
}

func TestKeysSetAndGet(t *testing.T) {
	dir := setupConfigDir(t)

	out, _, err := execute(t, "mysecretvalue\n", "keys", "set", "testkey")
	if err != nil {
		t.Fatalf("keys set error = %v", err)
	}
	if !strings.Contains(out, "Key 'testkey' has been set") {
		t.Errorf("keys set output = %q", out)
	}

	if keys := readKeysJSON(t, dir); keys["testkey"] != "mysecretvalue" {
		t.Errorf("stored keys = %v", keys)
	}

	out, _, err = execute(t, "", "keys", "get", "testkey")
	if err != nil {
		t.Fatalf("keys get error = %v", err)
	}
	if strings.TrimSpace(out) != "mysecretvalue" {
		t.Errorf("keys get output = %q", out)
	}

	_, _, err = execute(t, "", "keys", "get", "nonexistent")
	if !errors.Is(err, keystore.ErrNotFound) {
		t.Fatalf("keys get nonexistent error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "No key found with name 'nonexistent'") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestKeysSetValueFlag(t *testing.T) {
	dir := setupConfigDir(t)

	if _, _, err := execute(t, "", "keys", "set", "openai", "--value", "sk-flag"); err != nil {
		t.Fatalf("keys set error = %v", err)
	}
	if keys := readKeysJSON(t, dir); keys["openai"] != "sk-flag" {
		t.Errorf("stored keys = %v", keys)
	}
}

func TestKeysSetHiddenPrompt(t *testing.T) {
	dir := setupConfigDir(t)

	oldIsTerminal := stdinIsTerminal
	stdinIsTerminal = func(io.Reader) bool { return true }
	defer func() { stdinIsTerminal = oldIsTerminal }()

	tui.SetMock(&tui.MockPrompts{
		HiddenInputFunc: func(title string) (string, error) {
			return "hidden-value", nil
		},
	})
	defer tui.ClearMock()

	if _, _, err := execute(t, "", "keys", "set", "anthropic"); err != nil {
		t.Fatalf("keys set error = %v", err)
	}
	if keys := readKeysJSON(t, dir); keys["anthropic"] != "hidden-value" {
		t.Errorf("stored keys = %v", keys)
	}
}

func TestKeysSetRejectsEmptyValue(t *testing.T) {
	setupConfigDir(t)

	if _, _, err := execute(t, "\n", "keys", "set", "empty"); err == nil {
		t.Error("keys set with empty value should fail")
	}
}

func TestKeysSetEmptyValueFlag(t *testing.T) {
	dir := setupConfigDir(t)

	_, _, err := execute(t, "from-stdin\n", "keys", "set", "empty", "--value", "")
	if err == nil {
		t.Fatal("keys set --value \"\" should fail")
	}
	if !strings.Contains(err.Error(), "must not be empty") {
		t.Errorf("error = %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, keystore.KeysFileName)); !os.IsNotExist(statErr) {
		t.Errorf("keys file should not be written, stat error = %v", statErr)
	}
}

func TestKeysGetMasked(t *testing.T) {
	setupConfigDir(t)

	if _, _, err := execute(t, "", "keys", "set", "openai", "--value", "sk-1234567890WXYZ"); err != nil {
		t.Fatalf("keys set error = %v", err)
	}

	out, _, err := execute(t, "", "keys", "get", "openai", "--masked")
	if err != nil {
		t.Fatalf("keys get error = %v", err)
	}
	if strings.TrimSpace(out) != "*************WXYZ" {
		t.Errorf("keys get --masked output = %q", out)
	}
}

func TestKeysList(t *testing.T) {
	dir := setupConfigDir(t)

	out, _, err := execute(t, "", "keys", "list")
	if err != nil {
		t.Fatalf("keys list error = %v", err)
	}
	if !strings.Contains(out, "No keys found") {
		t.Errorf("keys list output = %q, want no keys message", out)
	}

	content := `{"api1": "value1", "api2": "value2", "zapi": "value3"}`
	if err := os.WriteFile(filepath.Join(dir, keystore.KeysFileName), []byte(content), 0600); err != nil {
		t.Fatalf("write keys file: %v", err)
	}

	out, _, err = execute(t, "", "keys", "list")
	if err != nil {
		t.Fatalf("keys list error = %v", err)
	}
	if strings.TrimSpace(out) != "api1\napi2\nzapi" {
		t.Errorf("keys list output = %q", out)
	}

	out, _, err = execute(t, "", "keys", "list", "api*")
	if err != nil {
		t.Fatalf("keys list pattern error = %v", err)
	}
	if strings.TrimSpace(out) != "api1\napi2" {
		t.Errorf("keys list api* output = %q", out)
	}

	out, _, err = execute(t, "", "keys", "list", "nope*")
	if err != nil {
		t.Fatalf("keys list pattern error = %v", err)
	}
	if !strings.Contains(out, "No keys found matching") {
		t.Errorf("keys list nope* output = %q", out)
	}
}

func TestKeysListCorruptFile(t *testing.T) {
	dir := setupConfigDir(t)
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, keystore.KeysFileName)
	if err := os.WriteFile(path, []byte("not json at all"), 0600); err != nil {
		t.Fatalf("write keys file: %v", err)
	}

	out, errOut, err := execute(t, "", "keys", "list")
	if err != nil {
		t.Fatalf("keys list error = %v", err)
	}
	if !strings.Contains(out, "No keys found") {
		t.Errorf("keys list output = %q", out)
	}
	if !strings.Contains(errOut, "Warning:") || !strings.Contains(errOut, path) {
		t.Errorf("stderr = %q, want corrupt-file warning naming %s", errOut, path)
	}
}

func TestKeysPath(t *testing.T) {
	dir := setupConfigDir(t)

	out, _, err := execute(t, "", "keys", "path")
	if err != nil {
		t.Fatalf("keys path error = %v", err)
	}
	want := filepath.Join(dir, keystore.KeysFileName)
	if strings.TrimSpace(out) != want {
		t.Errorf("keys path output = %q, want %q", out, want)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("config dir should be created, stat err = %v", err)
	}
}

func TestKeysDelete(t *testing.T) {
	dir := setupConfigDir(t)

	if _, _, err := execute(t, "", "keys", "set", "a", "--value", "1"); err != nil {
		t.Fatalf("keys set error = %v", err)
	}
	out, _, err := execute(t, "", "keys", "delete", "a")
	if err != nil {
		t.Fatalf("keys delete error = %v", err)
	}
	if !strings.Contains(out, "Key 'a' has been deleted") {
		t.Errorf("keys delete output = %q", out)
	}
	if keys := readKeysJSON(t, dir); len(keys) != 0 {
		t.Errorf("stored keys = %v, want empty", keys)
	}

	if _, _, err := execute(t, "", "keys", "rm", "a"); !errors.Is(err, keystore.ErrNotFound) {
		t.Errorf("keys rm missing error = %v, want ErrNotFound", err)
	}
}

func TestKeysExport(t *testing.T) {
	setupConfigDir(t)

	out, _, err := execute(t, "", "keys", "export")
	if err != nil {
		t.Fatalf("keys export error = %v", err)
	}
	if out != "" {
		t.Errorf("keys export on empty store = %q, want empty", out)
	}

	if _, _, err := execute(t, "", "keys", "set", "OPENAI_API_KEY", "--value", "sk-abc"); err != nil {
		t.Fatalf("keys set error = %v", err)
	}
	out, _, err = execute(t, "", "keys", "export")
	if err != nil {
		t.Fatalf("keys export error = %v", err)
	}
	if out != "OPENAI_API_KEY=\"sk-abc\"\n" {
		t.Errorf("keys export output = %q", out)
	}
}
