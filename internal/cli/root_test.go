package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	if code != 0 {
		t.Errorf("Expected exit code 0, got %d", code)
	}
	if !strings.HasPrefix(stdout, "chatlens ") {
		t.Errorf("Unexpected output %q", stdout)
	}
}

func TestRun_InvalidLogLevel(t *testing.T) {
	code, _, stderr := runCLI(t, "--log-level", "loud", "version")
	if code != 2 {
		t.Errorf("Expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr, "invalid --log-level") {
		t.Errorf("Unexpected stderr %q", stderr)
	}
}

func TestRun_ExitCodes(t *testing.T) {
	tmpDir := t.TempDir()
	good := filepath.Join(tmpDir, "chat.txt")
	bad := filepath.Join(tmpDir, "notes.txt")
	if err := os.WriteFile(good, []byte("15/01/2023, 09:05 - Alice: hi\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("no headers\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if code, _, _ := runCLI(t, "analyze", "-q", good); code != 0 {
		t.Errorf("good export: exit code %d, want 0", code)
	}
	if code, _, _ := runCLI(t, "analyze", "-q", bad); code != 1 {
		t.Errorf("export without messages: exit code %d, want 1", code)
	}
	code, _, stderr := runCLI(t, "analyze", filepath.Join(tmpDir, "missing.txt"))
	if code != 2 {
		t.Errorf("missing export: exit code %d, want 2", code)
	}
	if !strings.HasPrefix(stderr, "Error: export not found") {
		t.Errorf("Unexpected stderr %q", stderr)
	}

	// A later successful run starts from a clean exit code.
	if code, _, _ := runCLI(t, "analyze", "-q", good); code != 0 {
		t.Errorf("exit code leaked between runs: %d", code)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PATH", t.TempDir())

	code, _, stderr := runCLI(t, "frobnicate")
	if code != 2 {
		t.Errorf("Expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr, "chatlens-frobnicate") {
		t.Errorf("Expected plugin hint, got %q", stderr)
	}
}

func TestRun_Plugin(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	bin := t.TempDir()
	t.Setenv("PATH", bin+string(os.PathListSeparator)+"/bin"+string(os.PathListSeparator)+"/usr/bin")

	script := "#!/bin/sh\necho \"hello $1\"\n"
	if err := os.WriteFile(filepath.Join(bin, "chatlens-greet"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	code, stdout, _ := runCLI(t, "greet", "world")
	if code != 0 {
		t.Errorf("Expected exit code 0, got %d", code)
	}
	if strings.TrimSpace(stdout) != "hello world" {
		t.Errorf("Unexpected plugin output %q", stdout)
	}

	code, stdout, _ = runCLI(t, "plugins")
	if code != 0 {
		t.Errorf("Expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout, "greet") {
		t.Errorf("Expected greet in plugin list, got %q", stdout)
	}
}

func TestIsBuiltinCommand(t *testing.T) {
	root := NewRootCommand()
	for _, name := range []string{"analyze", "detect", "diagnose", "serve", "validate", "version", "plugins", "help", "completion"} {
		if !isBuiltinCommand(root, name) {
			t.Errorf("%s should be built in", name)
		}
	}
	if isBuiltinCommand(root, "watch") {
		t.Error("watch should not be built in")
	}
}
