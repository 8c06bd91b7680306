package taskrc

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsure_CreatesSettingsAndDataDir(t *testing.T) {
	dir := t.TempDir()
	rc := filepath.Join(dir, "taskrc")
	data := filepath.Join(dir, "data")

	created, err := Ensure(rc, data, map[string]string{"verbose": "blank"})
	require.NoError(t, err)
	assert.True(t, created)

	settings, err := Load(rc)
	require.NoError(t, err)
	assert.Equal(t, data, settings["data.location"])
	assert.Equal(t, "6.0", settings["urgency.uda.priority.H.coefficient"])
	assert.Equal(t, "12.0", settings["urgency.due.coefficient"])
	assert.Equal(t, "blank", settings["verbose"])

	info, err := os.Stat(data)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
		rcInfo, err := os.Stat(rc)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), rcInfo.Mode().Perm())
	}
}

func TestEnsure_LeavesExistingFileAlone(t *testing.T) {
	dir := t.TempDir()
	rc := filepath.Join(dir, "taskrc")
	require.NoError(t, os.WriteFile(rc, []byte("data.location=/elsewhere\n"), 0600))

	created, err := Ensure(rc, filepath.Join(dir, "data"), nil)
	require.NoError(t, err)
	assert.False(t, created)

	b, err := os.ReadFile(rc)
	require.NoError(t, err)
	assert.Equal(t, "data.location=/elsewhere\n", string(b))
}

func TestWrite_SortsKeys(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Write(&sb, map[string]string{"b": "2", "a": "1"}))
	assert.Equal(t, "a=1\nb=2\n", sb.String())
}

func TestParse(t *testing.T) {
	input := `# comment
include /usr/share/taskwarrior/dark-256.theme

data.location = ~/.task
urgency.due.coefficient=12.0
garbage line
`
	settings, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"data.location":           "~/.task",
		"urgency.due.coefficient": "12.0",
	}, settings)
}

func TestEnsure_DefaultDataDir(t *testing.T) {
	dir := t.TempDir()
	rc := filepath.Join(dir, ".taskrc")

	created, err := Ensure(rc, "", nil)
	require.NoError(t, err)
	assert.True(t, created)

	settings, err := Load(rc)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".task"), settings["data.location"])
	assert.DirExists(t, filepath.Join(dir, ".task"))
}

func TestEnsure_RemovesPartialFileOnWriteError(t *testing.T) {
	orig := writeSettings
	writeSettings = func(w io.Writer, _ map[string]string) error {
		_, _ = io.WriteString(w, "confirmation=off\n")
		return errors.New("disk full")
	}
	t.Cleanup(func() { writeSettings = orig })

	rc := filepath.Join(t.TempDir(), "taskrc")
	created, err := Ensure(rc, filepath.Join(t.TempDir(), "data"), nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
	assert.False(t, created)
	assert.NoFileExists(t, rc)

	writeSettings = orig
	created, err = Ensure(rc, filepath.Join(t.TempDir(), "data"), nil)
	require.NoError(t, err)
	assert.True(t, created)
}
