// Package inject simulates keyboard input into the focused terminal via
// clipboard paste. Everything here is best effort: the target application
// cannot report success, so failures are logged and swallowed.
package inject

import (
	"log/slog"
	"os/exec"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
)

// Typist pastes text into the focused application and submits it.
type Typist struct {
	keyDelay    time.Duration
	toggleDelay time.Duration

	setClipboard func(text string) error
	runCmd       func(name string, args ...string) error
}

// NewTypist creates a typist with the fixed delays the paste dance needs
// to tolerate UI latency.
func NewTypist() *Typist {
	return &Typist{
		keyDelay:     200 * time.Millisecond,
		toggleDelay:  100 * time.Millisecond,
		setClipboard: clipboard.WriteAll,
		runCmd: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Type places text into the focused application's input buffer and
// submits it: clipboard set, paste keystroke, enter keystroke.
func (t *Typist) Type(text string) {
	if err := t.setClipboard(text); err != nil {
		slog.Warn("clipboard write failed", "error", err)
		return
	}
	time.Sleep(t.keyDelay)
	t.pressPaste()
	time.Sleep(t.keyDelay)
	t.pressEnter()
}

// TogglePlanMode emits the double shift+tab gesture that cycles the CLI's
// permission mode.
func (t *Typist) TogglePlanMode() {
	t.pressShiftTab()
	time.Sleep(t.toggleDelay)
	t.pressShiftTab()
}

func (t *Typist) pressPaste() {
	if runtime.GOOS == "darwin" {
		t.run("osascript", "-e", `tell application "System Events" to keystroke "v" using command down`)
		return
	}
	t.run("xdotool", "key", "--clearmodifiers", "ctrl+v")
}

func (t *Typist) pressEnter() {
	if runtime.GOOS == "darwin" {
		t.run("osascript", "-e", `tell application "System Events" to key code 36`)
		return
	}
	t.run("xdotool", "key", "--clearmodifiers", "Return")
}

func (t *Typist) pressShiftTab() {
	if runtime.GOOS == "darwin" {
		t.run("osascript", "-e", `tell application "System Events" to key code 48 using shift down`)
		return
	}
	t.run("xdotool", "key", "--clearmodifiers", "shift+Tab")
}

func (t *Typist) run(name string, args ...string) {
	if err := t.runCmd(name, args...); err != nil {
		slog.Debug("keystroke failed", "cmd", name, "error", err)
	}
}
