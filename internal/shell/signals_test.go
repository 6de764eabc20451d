package shell

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeControllerToggle(t *testing.T) {
	var m ModeController
	assert.False(t, m.ForegroundOnly())
	_, ok := m.Notice()
	assert.False(t, ok, "no notice before any toggle")

	m.Toggle()
	assert.True(t, m.ForegroundOnly())
	notice, ok := m.Notice()
	require.True(t, ok)
	assert.Equal(t, "Entering foreground-only mode (& is now ignored)", notice)

	_, ok = m.Notice()
	assert.False(t, ok, "notice is reported once")

	m.Toggle()
	assert.False(t, m.ForegroundOnly())
	notice, ok = m.Notice()
	require.True(t, ok)
	assert.Equal(t, "Exiting foreground-only mode", notice)
}

func TestModeControllerCoalescesToggles(t *testing.T) {
	var m ModeController
	m.Toggle()
	m.Toggle()

	notice, ok := m.Notice()
	require.True(t, ok)
	assert.Equal(t, "Exiting foreground-only mode", notice)
	_, ok = m.Notice()
	assert.False(t, ok)
}

func TestSIGTSTPTogglesMode(t *testing.T) {
	s := newTestShell(t, nil)
	s.setupSignalHandling()
	t.Cleanup(s.stopSignalHandling)

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTSTP))
	assert.Eventually(t, s.mode.ForegroundOnly, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTSTP))
	assert.Eventually(t, func() bool { return !s.mode.ForegroundOnly() }, 2*time.Second, 10*time.Millisecond)
}

func TestSIGINTDoesNotStopShell(t *testing.T) {
	s := newTestShell(t, nil)
	s.setupSignalHandling()
	t.Cleanup(s.stopSignalHandling)

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))
	time.Sleep(50 * time.Millisecond)
	assert.False(t, s.mode.ForegroundOnly())
}
