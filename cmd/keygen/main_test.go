package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/schmidt-samoa/internal/cli"
	"github.com/taurusgroup/schmidt-samoa/pkg/ss"
)

func TestKeygen(t *testing.T) {
	dir := t.TempDir()
	pub, priv := filepath.Join(dir, "ss.pub"), filepath.Join(dir, "ss.priv")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-b", "128", "-s", "42", "-n", pub, "-d", priv, "-u", "carol", "-v"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "seed=42")

	info, err := os.Stat(priv)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "private key must only be readable by its owner")

	f, err := os.Open(pub)
	require.NoError(t, err)
	defer f.Close()
	pk, err := ss.ReadPublicKey(f, ss.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "carol", pk.User())
	assert.InDelta(t, 128, pk.N().BitLen(), 2)

	// the same seed produces the same key
	pub2 := filepath.Join(dir, "again.pub")
	require.NoError(t, run([]string{"-b", "128", "-s", "42", "-n", pub2, "-d", filepath.Join(dir, "again.priv"), "-u", "carol"}, &stdout, &stderr))
	first, err := os.ReadFile(pub)
	require.NoError(t, err)
	second, err := os.ReadFile(pub2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestKeygenWorkers(t *testing.T) {
	dir := t.TempDir()
	pub := filepath.Join(dir, "ss.pub")
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-b", "128", "-w", "3", "-n", pub, "-d", filepath.Join(dir, "ss.priv"), "-v"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "workers=3")

	f, err := os.Open(pub)
	require.NoError(t, err)
	defer f.Close()
	pk, err := ss.ReadPublicKey(f, ss.FormatText)
	require.NoError(t, err)
	assert.InDelta(t, 127, pk.N().BitLen(), 1)
}

func TestKeygenCBOR(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "ss.priv")
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-b", "96", "-s", "1", "-f", "cbor", "-n", filepath.Join(dir, "ss.pub"), "-d", priv}, &stdout, &stderr))

	f, err := os.Open(priv)
	require.NoError(t, err)
	defer f.Close()
	sk, err := ss.ReadPrivateKey(f, ss.FormatCBOR)
	require.NoError(t, err)
	_, _, ok := sk.Factors()
	assert.True(t, ok)
}

func TestKeygenErrors(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	common := []string{"-n", filepath.Join(dir, "ss.pub"), "-d", filepath.Join(dir, "ss.priv")}

	assert.Error(t, run(append([]string{"-s", "abc"}, common...), &stdout, &stderr))
	assert.Error(t, run(append([]string{"-f", "pem"}, common...), &stdout, &stderr))
	assert.ErrorIs(t, run(append([]string{"-b", "8"}, common...), &stdout, &stderr), ss.ErrKeySize)
	assert.Error(t, run([]string{"-s", "1", "-b", "64", "-n", filepath.Join(dir, "missing", "ss.pub")}, &stdout, &stderr))

	stdout.Reset()
	assert.ErrorIs(t, run([]string{"-h"}, &stdout, &stderr), cli.ErrHelp)
	assert.Contains(t, stdout.String(), "Generates an SS public/private key pair.")
}
