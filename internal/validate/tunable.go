package validate

import (
	"fmt"
	"regexp"
)

var tunableNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// TunableName checks that name looks like a scheduler attribute name
// (lowercase, digits and underscores, starting with a letter). It does not
// check that the attribute exists; the scheduler reports unknown names.
func TunableName(name string) error {
	if name == "" {
		return fmt.Errorf("tunable name cannot be empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("tunable name '%s' is longer than 64 characters", name)
	}
	if !tunableNameRegex.MatchString(name) {
		return fmt.Errorf("tunable name '%s' must contain only lowercase letters [a-z], numbers [0-9] and underscores (_), starting with a letter", name)
	}
	return nil
}
