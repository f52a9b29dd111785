//go:build e2e && unix

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationExit(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")

	_, err = tf.CreateTestRepo("exit-test-repo")
	require.NoError(t, err, "Failed to create exit test repo")

	require.NoError(t, tf.StartApp("-d", workspace), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.SeePlain("everywhere"), "Should show everywhere title")

	require.NoError(t, tf.Quit())
	if exited, exitErr := tf.WaitExit(1500 * time.Millisecond); exited {
		assert.NoError(t, exitErr, "esc should exit cleanly")
		return
	}

	t.Logf("esc didn't work within 1.5 seconds, using Ctrl+C")
	require.NoError(t, tf.SendCtrlC())
	if exited, _ := tf.WaitExit(750 * time.Millisecond); !exited {
		tf.DumpTailOnFail(t, "exit-failure", 4096)
		t.Fatal("Application did not exit within total timeout")
	}
}

func TestApplicationCreatesConfig(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")

	require.NoError(t, tf.StartApp("-d", workspace), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	require.NoError(t, tf.SendCtrlC())
	exited, _ := tf.WaitExit(2 * time.Second)
	require.True(t, exited, "app did not exit after ctrl+c")

	_, err = os.Stat(filepath.Join(workspace, ".everywhere.toml"))
	assert.NoError(t, err, "default config should be written to the search root")
}
