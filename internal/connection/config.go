package connection

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds backend connection parameters such as credentials, host and
// warehouse identifiers. Keys are matched case-insensitively.
type Config map[string]string

// Get returns the value for key, or "" if absent.
func (c Config) Get(key string) string {
	if v, ok := c[key]; ok {
		return v
	}
	for k, v := range c {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// GetDefault returns the value for key, or def if absent or empty.
func (c Config) GetDefault(key, def string) string {
	if v := c.Get(key); v != "" {
		return v
	}
	return def
}

// Int parses key as an integer, falling back to def when the key is absent.
func (c Config) Int(b Backend, key string, def int) (int, error) {
	v := c.Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &ConfigurationError{Backend: string(b), Key: key, Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
	}
	return n, nil
}

// Clone returns an independent copy.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

func (c Config) validate(b Backend) error {
	for _, k := range requiredKeys[b] {
		if strings.TrimSpace(c.Get(k)) == "" {
			return &ConfigurationError{Backend: string(b), Key: k, Err: ErrMissingKey}
		}
	}
	return nil
}
