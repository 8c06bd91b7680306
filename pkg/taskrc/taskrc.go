// Package taskrc creates and reads the task binary's key=value settings file.
package taskrc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Defaults returns the settings written to a fresh file, including the
// tool's own urgency coefficient table.
func Defaults() map[string]string {
	return map[string]string{
		"confirmation": "off",
		"verbose":      "nothing",
		"json.array":   "on",

		"urgency.uda.priority.H.coefficient": "6.0",
		"urgency.uda.priority.M.coefficient": "3.9",
		"urgency.uda.priority.L.coefficient": "1.8",
		"urgency.project.coefficient":        "1.0",
		"urgency.due.coefficient":            "12.0",
		"urgency.tags.coefficient":           "1.0",
		"urgency.active.coefficient":         "4.0",
		"urgency.scheduled.coefficient":      "5.0",
		"urgency.age.coefficient":            "2.0",
		"urgency.annotations.coefficient":    "1.0",
		"urgency.blocking.coefficient":       "8.0",
		"urgency.blocked.coefficient":        "-5.0",
		"urgency.waiting.coefficient":        "-3.0",
		"urgency.inherit":                    "off",
	}
}

// Ensure makes sure dataDir exists with owner-only permissions and, if path
// does not exist yet, writes the defaults merged with overrides to it. An
// existing file is never rewritten. It reports whether the file was created.
//
// When dataDir is empty it defaults to .task next to path, and is only
// created along with a new settings file.
func Ensure(path, dataDir string, overrides map[string]string) (bool, error) {
	_, statErr := os.Stat(path)
	if statErr != nil && !os.IsNotExist(statErr) {
		return false, fmt.Errorf("could not check settings file '%s': %w", path, statErr)
	}
	exists := statErr == nil

	if dataDir == "" {
		if exists {
			return false, nil
		}
		dataDir = filepath.Join(filepath.Dir(path), ".task")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return false, fmt.Errorf("failed to create task data directory: %w", err)
	}
	if exists {
		return false, nil
	}

	settings := Defaults()
	settings["data.location"] = dataDir
	for k, v := range overrides {
		settings[k] = v
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return false, fmt.Errorf("failed to create settings directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return false, fmt.Errorf("failed to open settings file for writing: %w", err)
	}

	err = writeSettings(f, settings)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// A partial file would be taken as existing on every later run.
		_ = os.Remove(path)
		return false, fmt.Errorf("failed to write settings file '%s': %w", path, err)
	}
	return true, nil
}

// writeSettings is Write, swapped in tests to fail mid-file.
var writeSettings = Write

// Write emits settings as sorted key=value lines.
func Write(w io.Writer, settings map[string]string) error {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bw := bufio.NewWriter(w)
	for _, k := range keys {
		if _, err := fmt.Fprintf(bw, "%s=%s\n", k, settings[k]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Parse reads key=value lines. Blank lines, comments and include
// directives are skipped.
func Parse(r io.Reader) (map[string]string, error) {
	settings := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "include ") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		settings[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return settings, scanner.Err()
}

// Load parses the settings file at path.
func Load(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
