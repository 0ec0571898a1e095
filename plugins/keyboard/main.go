// Command keyboard sends keystrokes on macOS when a pose is detected.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ayusman/mudra/internal/plugin"
)

// keystroke is the argument shape for both actions. Modifiers accept
// command, option, control and shift plus their short aliases.
type keystroke struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"`
}

var modifiers = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

func main() {
	plugin.Main(plugin.Actions{
		"keystroke": press,
		"shortcut":  press,
	})
}

func press(req *plugin.Request) (any, error) {
	var k keystroke
	if err := json.Unmarshal(req.Arguments(), &k); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}
	if k.Key == "" {
		return nil, errors.New("key is required")
	}

	if out, err := exec.Command("osascript", "-e", script(k)).CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: %s", err, out)
	}
	return map[string]string{"sent": k.Key}, nil
}

// script builds the System Events command for k. Unknown modifiers are
// ignored.
func script(k keystroke) string {
	var using []string
	for _, mod := range k.Modifiers {
		if m, ok := modifiers[strings.ToLower(mod)]; ok {
			using = append(using, m)
		}
	}

	s := fmt.Sprintf(`tell application "System Events" to keystroke %q`, k.Key)
	if len(using) > 0 {
		s += " using {" + strings.Join(using, ", ") + "}"
	}
	return s
}
