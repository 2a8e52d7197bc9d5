package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

var modifiers = map[string]bool{
	"alt": true, "option": true,
	"shift": true,
	"ctrl": true, "control": true,
	"cmd": true, "command": true, "super": true, "meta": true,
	"cmdorctrl": true, "commandorcontrol": true,
}

var namedKeys = map[string]bool{
	"space": true, "enter": true, "return": true, "tab": true, "escape": true, "esc": true,
	"backspace": true, "delete": true, "insert": true, "home": true, "end": true,
	"pageup": true, "pagedown": true, "up": true, "down": true, "left": true, "right": true,
	"plus": true, "minus": true, "comma": true, "period": true, "slash": true,
}

// ValidateAccelerator checks a shortcut such as "CommandOrControl+Shift+T":
// one or more distinct modifiers followed by exactly one key. An empty
// string is valid and means no shortcut.
func ValidateAccelerator(accel string) error {
	if accel == "" {
		return nil
	}

	parts := strings.Split(accel, "+")
	if len(parts) < 2 {
		return fmt.Errorf("accelerator %q needs at least one modifier and a key", accel)
	}

	seen := make(map[string]bool)
	for _, p := range parts[:len(parts)-1] {
		m := strings.ToLower(strings.TrimSpace(p))
		if !modifiers[m] {
			return fmt.Errorf("accelerator %q: unknown modifier %q", accel, p)
		}
		if seen[m] {
			return fmt.Errorf("accelerator %q: duplicate modifier %q", accel, p)
		}
		seen[m] = true
	}

	key := strings.TrimSpace(parts[len(parts)-1])
	if !validKey(key) {
		return fmt.Errorf("accelerator %q: invalid key %q", accel, key)
	}
	return nil
}

func validKey(key string) bool {
	lower := strings.ToLower(key)
	if len(key) == 1 {
		c := lower[0]
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}
	if namedKeys[lower] {
		return true
	}
	if strings.HasPrefix(lower, "f") {
		n, err := strconv.Atoi(lower[1:])
		return err == nil && n >= 1 && n <= 24
	}
	return false
}
