// Package plugins runs external chatlens-<command> binaries for commands
// that chatlens does not implement itself.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// Prefix is the binary name prefix shared by all plugins.
const Prefix = "chatlens-"

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// Plugin is an installed plugin binary.
type Plugin struct {
	Command string
	Path    string
}

// searchDirs returns the plugin directories in lookup order, excluding PATH.
func searchDirs() []string {
	var dirs []string
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(execPath))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(homeDir, ".chatlens", "plugins"))
	}
	return dirs
}

// FindPlugin returns the path of the chatlens-<command> binary. It looks
// next to the chatlens binary, then in ~/.chatlens/plugins/, then in PATH.
func FindPlugin(command string) (string, error) {
	name := Prefix + command
	for _, dir := range searchDirs() {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}
	return "", ErrPluginNotFound
}

// Discover lists plugins in the search directories and PATH. When a command
// is installed more than once the first location in lookup order wins.
func Discover() []Plugin {
	dirs := searchDirs()
	dirs = append(dirs, filepath.SplitList(os.Getenv("PATH"))...)

	seen := make(map[string]bool)
	var found []Plugin
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			command, ok := strings.CutPrefix(e.Name(), Prefix)
			if !ok || command == "" || seen[command] {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if !isExecutable(path) {
				continue
			}
			seen[command] = true
			found = append(found, Plugin{Command: command, Path: path})
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Command < found[j].Command })
	return found
}

// Execute runs the plugin at pluginPath with args and the given streams and
// returns its exit code.
func Execute(ctx context.Context, pluginPath string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := exec.CommandContext(ctx, pluginPath, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing plugin: %v\n", err)
		return 1
	}
	return 0
}

// FormatNotFoundError explains where a plugin for command would be found.
func FormatNotFoundError(command string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "unknown command %q for \"chatlens\"\n", command)
	sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	fmt.Fprintf(&sb, "  - %s%s in the same directory as chatlens\n", Prefix, command)
	fmt.Fprintf(&sb, "  - ~/.chatlens/plugins/%s%s\n", Prefix, command)
	fmt.Fprintf(&sb, "  - %s%s anywhere in your PATH\n", Prefix, command)
	sb.WriteString("\nRun 'chatlens --help' for usage.")

	return sb.String()
}

// isExecutable reports whether path is a regular file with an execute bit.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
