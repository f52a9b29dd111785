//go:build e2e && unix

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

var binPath = "everywhere_e2e" // set by TestMain

// keys as the terminal sends them
const (
	KeyEnter = "\r"
	KeyCtrlC = "\x03"
	KeyEsc   = "\x1b"
	KeyTab   = "\t"
	KeyDown  = "\x1b[B"
)

const (
	readyTimeout = 5 * time.Second
	seeTimeout   = 5 * time.Second
	maxOutput    = 1 << 20
)

// ansiRe matches CSI, OSC, charset and keypad sequences plus carriage returns
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` +
		`(?:\x1b\][^\x07]*\x07)|` +
		`(?:\x1b[\(\)][A-Za-z])|` +
		`(?:\x1b=|\x1b>)|` +
		`\r`,
)

// TUITestFramework runs the binary in a pseudo terminal and records what it draws
type TUITestFramework struct {
	t         *testing.T
	pty       *os.File
	cmd       *exec.Cmd
	workspace string

	mu     sync.Mutex
	output bytes.Buffer

	done    chan struct{} // closed once the process has exited
	exitErr error
}

// NewTUITest creates a driver; call CreateTestWorkspace before StartApp
func NewTUITest(t *testing.T) *TUITestFramework {
	return &TUITestFramework{t: t}
}

// StartApp launches the application with args in a 120x40 terminal
func (tf *TUITestFramework) StartApp(args ...string) error {
	tf.cmd = exec.Command(binPath, args...)
	tf.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+tf.workspace,
		"GIT_CONFIG_GLOBAL=/dev/null",
		"EVERYWHERE_E2E_TEST=1",
	)

	f, err := pty.StartWithSize(tf.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", binPath, err)
	}
	tf.pty = f
	tf.done = make(chan struct{})

	go tf.capture()
	go func() {
		tf.exitErr = tf.cmd.Wait()
		close(tf.done)
	}()
	return nil
}

func (tf *TUITestFramework) capture() {
	buf := make([]byte, 8192)
	for {
		n, err := tf.pty.Read(buf)
		if n > 0 {
			tf.mu.Lock()
			tf.output.Write(buf[:n])
			if over := tf.output.Len() - maxOutput; over > 0 {
				tf.output.Next(over)
			}
			tf.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendKeys writes raw keystrokes to the terminal
func (tf *TUITestFramework) SendKeys(keys string) error {
	tf.t.Helper()
	_, err := tf.pty.Write([]byte(keys))
	return err
}

// SendCtrlC sends Ctrl+C
func (tf *TUITestFramework) SendCtrlC() error { return tf.SendKeys(KeyCtrlC) }

// Quit sends escape, the quit key
func (tf *TUITestFramework) Quit() error { return tf.SendKeys(KeyEsc) }

// Type enters text into the query input
func (tf *TUITestFramework) Type(text string) error { return tf.SendKeys(text) }

// Down moves the cursor one row down
func (tf *TUITestFramework) Down() error { return tf.SendKeys(KeyDown) }

// Mark toggles the mark on the cursor row
func (tf *TUITestFramework) Mark() error { return tf.SendKeys(KeyTab) }

// Enter opens the selected row
func (tf *TUITestFramework) Enter() error { return tf.SendKeys(KeyEnter) }

// Ready waits for the idle marker drawn in e2e mode
func (tf *TUITestFramework) Ready() bool {
	tf.t.Helper()
	return tf.OutputContainsPlain("__READY__", readyTimeout)
}

// SeePlain waits for text to appear in the ANSI-stripped output
func (tf *TUITestFramework) SeePlain(text string) bool {
	tf.t.Helper()
	return tf.OutputContainsPlain(text, seeTimeout)
}

// OutputContainsPlain polls the ANSI-stripped output for text until timeout
func (tf *TUITestFramework) OutputContainsPlain(text string, timeout time.Duration) bool {
	tf.t.Helper()
	return tf.WaitForE(func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), text)
	}, timeout, "") == nil
}

// WaitForE polls the raw output until pred holds; the error carries the output tail
func (tf *TUITestFramework) WaitForE(pred func(string) bool, timeout time.Duration, failMsg string) error {
	tf.t.Helper()
	deadline := time.Now().Add(timeout)
	for !pred(tf.raw()) {
		if time.Now().After(deadline) {
			return fmt.Errorf("%s\n--- tail ---\n%s", failMsg, tf.tail(4096))
		}
		time.Sleep(25 * time.Millisecond)
	}
	return nil
}

// WaitExit reports whether the process ended within timeout, and its exit error
func (tf *TUITestFramework) WaitExit(timeout time.Duration) (bool, error) {
	select {
	case <-tf.done:
		return true, tf.exitErr
	case <-time.After(timeout):
		return false, nil
	}
}

func (tf *TUITestFramework) raw() string {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return tf.output.String()
}

func (tf *TUITestFramework) tail(n int) string {
	s := ansiRe.ReplaceAllString(tf.raw(), "")
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}

// DumpTailOnFail saves the last n bytes of plain output next to the test's temp files
func (tf *TUITestFramework) DumpTailOnFail(t *testing.T, name string, n int) {
	p := filepath.Join(t.TempDir(), name+".txt")
	if err := os.WriteFile(p, []byte(tf.tail(n)), 0644); err != nil {
		t.Logf("could not save output tail: %v", err)
		return
	}
	t.Logf("Saved tail to %s", p)
}

// Cleanup closes the terminal and kills the application if it is still running
func (tf *TUITestFramework) Cleanup() {
	if tf.pty != nil {
		_ = tf.pty.Close()
		tf.pty = nil
	}
	if tf.done != nil {
		if err := tf.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			tf.t.Logf("kill: %v", err)
		}
		tf.WaitExit(time.Second)
		tf.done = nil
	}
}
