// Package tray provides the system tray menu for Mudra.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Options configures the tray. Callbacks may be nil.
type Options struct {
	// Enabled is the initial detection state.
	Enabled bool
	// OnToggle is called with the new state after the user flips detection.
	OnToggle func(enabled bool)
	// OnOpen is called when the user asks for the settings page.
	OnOpen func()
	// OnQuit is called before the tray exits.
	OnQuit func()
}

// Tray is the system tray application.
type Tray struct {
	opts Options

	mu       sync.Mutex
	enabled  bool
	lastPose string
	lastHand string

	menuToggle *systray.MenuItem
	menuLast   *systray.MenuItem
}

// New creates a Tray.
func New(opts Options) *Tray {
	return &Tray{opts: opts, enabled: opts.Enabled}
}

// Run shows the tray and blocks until Quit is clicked or Stop is called.
// It must be called from the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Stop closes the tray from any goroutine.
func (t *Tray) Stop() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra hand pose recognition")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle pose recognition")
	systray.AddSeparator()
	t.menuLast = systray.AddMenuItem(lastTitle(t.lastHand, t.lastPose), "Last recognized pose")
	t.menuLast.Disable()
	t.mu.Unlock()

	systray.AddSeparator()
	menuOpen := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.toggle()
			case <-menuOpen.ClickedCh:
				if t.opts.OnOpen != nil {
					t.opts.OnOpen()
				}
			case <-menuQuit.ClickedCh:
				if t.opts.OnQuit != nil {
					t.opts.OnQuit()
				}
				systray.Quit()
				return
			}
		}
	}()
}

// toggle flips the enabled state and notifies OnToggle outside the lock.
func (t *Tray) toggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	t.mu.Unlock()

	if t.opts.OnToggle != nil {
		t.opts.OnToggle(enabled)
	}
}

// SetLastPose updates the "Last" menu entry.
func (t *Tray) SetLastPose(hand, pose string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastHand, t.lastPose = hand, pose
	if t.menuLast != nil {
		t.menuLast.SetTitle(lastTitle(hand, pose))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func lastTitle(hand, pose string) string {
	if pose == "" {
		return "Last: none"
	}
	if hand == "" {
		return "Last: " + pose
	}
	return "Last: " + pose + " (" + hand + ")"
}
