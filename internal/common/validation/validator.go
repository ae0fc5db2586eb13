package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// Validator accumulates cross-field checks that struct tags cannot express.
// Every Require method returns the validator so checks can be chained.
type Validator struct {
	errors []error
	prefix string
}

func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithPrefix prepends prefix to every message
func NewValidatorWithPrefix(prefix string) *Validator {
	return &Validator{prefix: prefix}
}

// RequireString fails on empty or whitespace-only values
func (v *Validator) RequireString(value, name string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.addError("%s is required", name)
	}
	return v
}

func (v *Validator) RequirePositive(value int, name string) *Validator {
	if value <= 0 {
		v.addError("%s must be positive", name)
	}
	return v
}

// RequirePort accepts decimal TCP ports 1-65535
func (v *Validator) RequirePort(value, name string) *Validator {
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		v.addError("%s must be a valid port number between 1 and 65535", name)
	}
	return v
}

// ValidateIf runs fn only when condition holds and records its error
func (v *Validator) ValidateIf(condition bool, fn func() error) *Validator {
	if !condition {
		return v
	}
	if err := fn(); err != nil {
		v.errors = append(v.errors, err)
	}
	return v
}

func (v *Validator) addError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if v.prefix != "" {
		msg = v.prefix + ": " + msg
	}
	v.errors = append(v.errors, fmt.Errorf("%s", msg))
}

func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

func (v *Validator) Errors() []error {
	return v.errors
}

// Error returns nil, the single recorded error unchanged, or all messages
// joined with "; "
func (v *Validator) Error() error {
	switch len(v.errors) {
	case 0:
		return nil
	case 1:
		return v.errors[0]
	}

	parts := make([]string, len(v.errors))
	for i, err := range v.errors {
		parts[i] = err.Error()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(parts, "; "))
}
