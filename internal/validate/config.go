package validate

import (
	"fmt"
	"time"
)

// ValidatePortRange rejects ports outside 1-65535.
func ValidatePortRange(port int) error {
	return ValidateField(port, "required,min=1,max=65535")
}

// ValidateRequiredString returns "<fieldName> cannot be empty" for "".
func ValidateRequiredString(value, fieldName string) error {
	if err := ValidateField(value, "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveTimeout rejects zero and negative durations.
func ValidatePositiveTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}

// ValidatePositiveInt rejects values below 1.
func ValidatePositiveInt(value int, name string) error {
	if err := ValidateField(value, "min=1"); err != nil {
		return fmt.Errorf("%s must be at least 1, got %d", name, value)
	}
	return nil
}

// ValidateOneOf checks value against a fixed set of choices, such as the
// backend kind or an output format.
func ValidateOneOf(value, fieldName string, choices ...string) error {
	for _, c := range choices {
		if value == c {
			return nil
		}
	}
	return fmt.Errorf("invalid %s '%s': must be one of %v", fieldName, value, choices)
}
