package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/keyring"
)

type fakeSecrets struct {
	value string
	err   error
}

func (f fakeSecrets) Get() (string, error) { return f.value, f.err }

func TestExpandPath(t *testing.T) {
	old := userHomeDirFunc
	defer func() { userHomeDirFunc = old }()
	userHomeDirFunc = func() (string, error) { return "/home/student", nil }

	got, err := ExpandPath("~/.config/studyday/studyday.db")
	require.NoError(t, err)
	assert.Equal(t, "/home/student/.config/studyday/studyday.db", got)

	got, err = ExpandPath("/var/lib/studyday.json")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/studyday.json", got)

	userHomeDirFunc = func() (string, error) { return "", errors.New("no home") }
	_, err = ExpandPath("~/x")
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadEnv(dir), "missing .env is not an error")

	t.Setenv(constants.EnvUser, "")
	os.Unsetenv(constants.EnvUser)
	content := constants.EnvUser + "=from-dotenv\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.EnvFileName), []byte(content), 0600))

	require.NoError(t, LoadEnv(dir))
	assert.Equal(t, "from-dotenv", os.Getenv(constants.EnvUser))
}

func TestResolveRemote(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(constants.EnvRemoteDB, "host=env")
		v, src, err := ResolveRemote("host=flag", fakeSecrets{value: "host=keyring"})
		require.NoError(t, err)
		assert.Equal(t, "host=flag", v)
		assert.Equal(t, SourceFlag, src)
	})

	t.Run("env before keyring", func(t *testing.T) {
		t.Setenv(constants.EnvRemoteDB, "host=env")
		v, src, err := ResolveRemote("", fakeSecrets{value: "host=keyring"})
		require.NoError(t, err)
		assert.Equal(t, "host=env", v)
		assert.Equal(t, SourceEnv, src)
	})

	t.Run("keyring", func(t *testing.T) {
		t.Setenv(constants.EnvRemoteDB, "")
		v, src, err := ResolveRemote("", fakeSecrets{value: "host=keyring"})
		require.NoError(t, err)
		assert.Equal(t, "host=keyring", v)
		assert.Equal(t, SourceKeyring, src)
	})

	t.Run("nothing configured", func(t *testing.T) {
		t.Setenv(constants.EnvRemoteDB, "")
		v, src, err := ResolveRemote("", fakeSecrets{err: keyring.ErrNotFound})
		require.NoError(t, err)
		assert.Empty(t, v)
		assert.Equal(t, SourceNone, src)

		_, _, err = ResolveRemote("", fakeSecrets{err: keyring.ErrUnavailable})
		assert.NoError(t, err)
	})
}

func TestResolveUser(t *testing.T) {
	t.Setenv(constants.EnvUser, "")
	assert.Equal(t, "flag", ResolveUser("flag", "stored"))
	assert.Equal(t, "stored", ResolveUser("", "stored"))

	t.Setenv(constants.EnvUser, "env")
	assert.Equal(t, "env", ResolveUser("", "stored"))
}
