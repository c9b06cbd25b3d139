package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlags(out *bytes.Buffer) *pflag.FlagSet {
	fs := NewFlagSet("keygen", "Generates a key pair.", out)
	fs.UintP("bits", "b", 256, "Minimum bits needed for public key n.")
	fs.StringP("pubkey", "n", "ss.pub", "Public key file.")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	var out bytes.Buffer
	v, err := Load(newTestFlags(&out), nil)
	require.NoError(t, err)
	assert.Equal(t, uint(256), v.GetUint("bits"))
	assert.Equal(t, "ss.pub", v.GetString("pubkey"))
	assert.False(t, v.GetBool(KeyVerbose))
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ss.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bits: 1024\npubkey: from-config.pub\nverbose: true\n"), 0o600))

	var out bytes.Buffer
	v, err := Load(newTestFlags(&out), []string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, uint(1024), v.GetUint("bits"), "config overrides defaults")
	assert.Equal(t, "from-config.pub", v.GetString("pubkey"))
	assert.True(t, v.GetBool(KeyVerbose))

	t.Setenv("SS_BITS", "2048")
	v, err = Load(newTestFlags(&out), []string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, uint(2048), v.GetUint("bits"), "environment overrides config")

	v, err = Load(newTestFlags(&out), []string{"--config", path, "-b", "512"})
	require.NoError(t, err)
	assert.Equal(t, uint(512), v.GetUint("bits"), "flags override everything")
}

func TestLoadErrors(t *testing.T) {
	var out bytes.Buffer
	_, err := Load(newTestFlags(&out), []string{"--unknown"})
	assert.Error(t, err)

	_, err = Load(newTestFlags(&out), []string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestLoadHelp(t *testing.T) {
	var out bytes.Buffer
	_, err := Load(newTestFlags(&out), []string{"-h"})
	assert.ErrorIs(t, err, ErrHelp)
	assert.Contains(t, out.String(), "Generates a key pair.")
	assert.Contains(t, out.String(), "--bits")
}

func TestLogger(t *testing.T) {
	var out bytes.Buffer
	quiet := Logger(&out, false)
	quiet.Debug().Msg("hidden")
	quiet.Warn().Msg("shown")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")

	out.Reset()
	verbose := Logger(&out, true)
	verbose.Debug().Int("bits", 256).Msg("n")
	assert.Contains(t, out.String(), "bits=256")
}

func TestFiles(t *testing.T) {
	var stdout bytes.Buffer
	w, err := CreateOutput("", 0o600, &stdout)
	require.NoError(t, err)
	_, _ = w.Write([]byte("hi"))
	require.NoError(t, w.Close())
	assert.Equal(t, "hi", stdout.String())

	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte("old contents"), 0o644))
	w, err = CreateOutput(path, 0o600, nil)
	require.NoError(t, err)
	_, _ = w.Write([]byte("new"))
	require.NoError(t, w.Close())
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	r, err := OpenInput(path, nil)
	require.NoError(t, err)
	data := make([]byte, 16)
	n, _ := r.Read(data)
	assert.Equal(t, "new", string(data[:n]))
	require.NoError(t, r.Close())

	_, err = OpenInput(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}
