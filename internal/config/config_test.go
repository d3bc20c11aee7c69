package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{DataPath: "/tmp/cellar"},
	}
	assert.NoError(t, valid.Validate())

	badEnv := *valid
	badEnv.App.Environment = "testing"
	assert.Error(t, badEnv.Validate())

	badLevel := *valid
	badLevel.Logger.Level = "verbose"
	assert.Error(t, badLevel.Validate())

	badKey := *valid
	badKey.Auth.TokenKeyHex = "abc123"
	assert.Error(t, badKey.Validate())

	noPath := *valid
	noPath.Storage.DataPath = ""
	assert.Error(t, noPath.Validate())
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", got)

	got, err = expandPath("/absolute/path", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/absolute/path", got)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	got, err = expandPath("~/wine", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "wine"), got)
}

func TestGetConfigValuePrecedence(t *testing.T) {
	t.Setenv("CELLAR_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "CELLAR_TEST_KEY", "fallback"))
	assert.Equal(t, "from-env", getConfigValue("", "CELLAR_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getConfigValue("", "CELLAR_TEST_MISSING", "fallback"))
}

func TestParseDurationValue(t *testing.T) {
	d, err := parseDurationValue("30s", "CELLAR_TEST_DUR", "15s")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	d, err = parseDurationValue("", "CELLAR_TEST_DUR_MISSING", "15s")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)

	_, err = parseDurationValue("nonsense", "CELLAR_TEST_DUR_MISSING", "15s")
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nCELLAR_ENVFILE_A=hello\nCELLAR_ENVFILE_B=\"quoted\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("CELLAR_ENVFILE_A")
		os.Unsetenv("CELLAR_ENVFILE_B")
	})

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "hello", os.Getenv("CELLAR_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("CELLAR_ENVFILE_B"))
}
