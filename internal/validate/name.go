package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var deviceNameRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

// DeviceName checks an anxietyd device name: [a-z0-9_-] only, not starting
// or ending with - or _. Names show up in metric labels and file names.
func DeviceName(name string) error {
	if name == "" {
		return fmt.Errorf("device name cannot be empty")
	}

	if !deviceNameRegex.MatchString(name) {
		return fmt.Errorf("device name '%s' must contain only lowercase letters [a-z], numbers [0-9], hyphens (-), and underscores (_)", name)
	}

	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "_") ||
		strings.HasSuffix(name, "-") || strings.HasSuffix(name, "_") {
		return fmt.Errorf("device name '%s' cannot start or end with hyphen (-) or underscore (_)", name)
	}

	return nil
}
