package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInitializesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "sonnik", "config.json")

	config, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, defaultConfig.APIBaseURL, config.APIBaseURL)
	require.Equal(t, defaultConfig.RequestTimeout, config.RequestTimeout)
	require.Equal(t, defaultConfig.AdminPageSize, config.AdminPageSize)

	// The default file was written for the next run.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestParseMergesPartialFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	statePath := filepath.Join(dir, "nested", "state.db")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"api_base_url": "https://sonnik.example.com/api",
		"state_path": "`+statePath+`"
	}`), 0644))

	config, err := Parse(path)
	require.NoError(t, err)

	// Explicit fields win, omitted fields fall back to defaults.
	require.Equal(t, "https://sonnik.example.com/api", config.APIBaseURL)
	require.Equal(t, defaultConfig.RequestTimeout, config.RequestTimeout)
	require.Equal(t, defaultConfig.AdminPageSize, config.AdminPageSize)

	// The state directory is ready for the store to open.
	require.Equal(t, statePath, config.StatePath)
	info, err := os.Stat(filepath.Dir(statePath))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestParseExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	config, err := Parse("~/.sonnik/config.json")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".sonnik", "state.db"), config.StatePath)
}
