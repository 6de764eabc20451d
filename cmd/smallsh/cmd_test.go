package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smallsh/internal/config"
)

func TestRootFlags(t *testing.T) {
	opts := &rootOptions{}
	cmd := newRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--config", "/tmp/x.yml", "--debug", "-v", "--log-file", "/tmp/x.log"}))

	assert.Equal(t, "/tmp/x.yml", opts.configPath)
	assert.True(t, opts.debug)
	assert.True(t, opts.verbose)
	assert.Equal(t, "/tmp/x.log", opts.logFile)
}

func TestRootRejectsArgs(t *testing.T) {
	opts := &rootOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs([]string{"unexpected"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestNewLoggerPrefersFlag(t *testing.T) {
	dir := t.TempDir()
	opts := &rootOptions{logFile: filepath.Join(dir, "flag.log")}
	cfg := config.Default()
	cfg.LogFile = filepath.Join(dir, "config.log")

	logger, err := opts.newLogger(cfg)
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, logger.Close())

	assert.FileExists(t, opts.logFile)
	assert.NoFileExists(t, cfg.LogFile)
}
