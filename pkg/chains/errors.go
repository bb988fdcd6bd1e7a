package chains

import "fmt"

// ConfigError is returned when the chain or endpoint configuration cannot be used
// It is raised before any network activity and is never retried
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

// NewConfigError creates a ConfigError with a formatted reason
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}
