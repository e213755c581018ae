package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fallacyfinder/internal/content"
)

func TestValidateEmbeddedBank(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"validate"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "OK: ")
}

func TestValidateRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fallacies:\n  - key: \"\"\n"), 0o644))

	rootCmd.SetArgs([]string{"validate", path})
	assert.Error(t, rootCmd.Execute())
}

func TestValidateWrittenBank(t *testing.T) {
	bank, err := content.Embedded()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bank.yaml")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bank.Write(f))
	require.NoError(t, f.Close())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"validate", path})
	require.NoError(t, rootCmd.Execute())

	stats := bank.Stats()
	assert.Contains(t, out.String(), "OK: ")
	assert.Contains(t, out.String(), " topics")
	assert.Greater(t, stats.Fragments, 0)
}
