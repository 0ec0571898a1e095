// Command system-control adjusts volume, brightness and media playback on
// macOS.
package main

import (
	"fmt"
	"os/exec"

	"github.com/ayusman/mudra/internal/plugin"
)

// keyCode presses a System Events key code.
func keyCode(code int) string {
	return fmt.Sprintf("tell application \"System Events\"\n\tkey code %d\nend tell", code)
}

var scripts = map[string]string{
	"volume-up":        `set volume output volume ((output volume of (get volume settings)) + 10)`,
	"volume-down":      `set volume output volume ((output volume of (get volume settings)) - 10)`,
	"volume-mute":      `set volume output muted (not (output muted of (get volume settings)))`,
	"brightness-up":    keyCode(144),
	"brightness-down":  keyCode(145),
	"media-play-pause": keyCode(100),
	"media-next":       keyCode(101),
	"media-prev":       keyCode(98),
}

func main() {
	actions := make(plugin.Actions, len(scripts))
	for name, script := range scripts {
		actions[name] = run(script)
	}
	plugin.Main(actions)
}

func run(script string) plugin.Handler {
	return func(*plugin.Request) (any, error) {
		if out, err := exec.Command("osascript", "-e", script).CombinedOutput(); err != nil {
			return nil, fmt.Errorf("%w: %s", err, out)
		}
		return nil, nil
	}
}
