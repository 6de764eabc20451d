package shell

import (
	"os/exec"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "exit value 0", Status{}.String())
	assert.False(t, Status{}.Known())
	assert.Equal(t, "exit value 3", Exited(3).String())
	assert.Equal(t, "terminated by signal 9", Signaled(syscall.SIGKILL).String())

	sig, ok := Signaled(syscall.SIGINT).Signal()
	assert.True(t, ok)
	assert.Equal(t, syscall.SIGINT, sig)
	assert.Equal(t, -1, Signaled(syscall.SIGINT).ExitCode())

	_, ok = Exited(1).Signal()
	assert.False(t, ok)
}

func startAndWait(t *testing.T, name string, args ...string) Status {
	t.Helper()
	cmd := exec.Command(name, args...)
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid
	require.NoError(t, cmd.Process.Release())

	status, done, err := waitPID(pid, 0)
	require.NoError(t, err)
	require.True(t, done)
	return status
}

func TestWaitPID(t *testing.T) {
	assert.Equal(t, Exited(0), startAndWait(t, "true"))
	assert.Equal(t, Exited(3), startAndWait(t, "sh", "-c", "exit 3"))
	assert.Equal(t, Signaled(syscall.SIGKILL), startAndWait(t, "sh", "-c", "kill -9 $$"))
}

func TestWaitPIDNoHang(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid
	t.Cleanup(func() {
		_ = syscall.Kill(pid, syscall.SIGKILL)
		_, _, _ = waitPID(pid, 0)
	})
	require.NoError(t, cmd.Process.Release())

	_, done, err := waitPID(pid, syscall.WNOHANG)
	require.NoError(t, err)
	assert.False(t, done)
}
