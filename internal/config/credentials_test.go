package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialRoundTrip(t *testing.T) {
	setConfigHome(t)

	require.NoError(t, SaveCredential("192.168.1.10", "lutron", "integration"))

	password, ok := RetrieveCredential("192.168.1.10", "lutron")
	require.True(t, ok)
	assert.Equal(t, "integration", password)
}

func TestRetrieveCredentialMisses(t *testing.T) {
	setConfigHome(t)

	// Nothing stored at all.
	_, ok := RetrieveCredential("192.168.1.10", "lutron")
	assert.False(t, ok)

	require.NoError(t, SaveCredential("192.168.1.10", "lutron", "integration"))

	// Wrong host, then wrong user.
	_, ok = RetrieveCredential("192.168.1.99", "lutron")
	assert.False(t, ok)
	_, ok = RetrieveCredential("192.168.1.10", "admin")
	assert.False(t, ok)
}

func TestSaveCredentialOverwrites(t *testing.T) {
	setConfigHome(t)

	require.NoError(t, SaveCredential("host", "user", "old"))
	require.NoError(t, SaveCredential("host", "user", "new"))

	password, ok := RetrieveCredential("host", "user")
	require.True(t, ok)
	assert.Equal(t, "new", password)
}

func TestCredentialsFilePermissions(t *testing.T) {
	home := setConfigHome(t)

	require.NoError(t, SaveCredential("host", "user", "secret"))

	info, err := os.Stat(filepath.Join(home, appName, credentialsFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestRetrieveCredentialToleratesCorruptFile(t *testing.T) {
	home := setConfigHome(t)

	dir := filepath.Join(home, appName)
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, credentialsFile), []byte("{not yaml"), 0600))

	// A broken store is a miss, not a crash.
	_, ok := RetrieveCredential("host", "user")
	assert.False(t, ok)
}
