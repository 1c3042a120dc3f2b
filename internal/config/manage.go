package config

import (
	"fmt"
	"strconv"
)

// KeyInfo is one row of `resumed config show`.
type KeyInfo struct {
	Key   string
	Value string
	// EnvVar overrides Key; it is PORT when only the port fallback is set.
	EnvVar  string
	FromEnv bool
}

// ShowAll lists every key with its effective value in cfg and whether an
// environment variable is overriding the config file for it.
func ShowAll(cfg Config) []KeyInfo {
	result := make([]KeyInfo, 0, len(specs))
	for _, s := range specs {
		name, raw := s.lookupEnv()
		result = append(result, KeyInfo{
			Key:     s.key,
			Value:   fmt.Sprintf("%v", s.extract(cfg)),
			EnvVar:  name,
			FromEnv: raw != "",
		})
	}
	return result
}

// SetKey writes a config key to the platform backend.
func SetKey(key, value string) error {
	return setKeyIn(newPlatformBackend(), key, value)
}

func setKeyIn(b ConfigBackend, key, value string) error {
	for _, s := range specs {
		if s.key != key {
			continue
		}
		switch s.typ {
		case kString:
			return b.SetString(key, value)
		case kInt:
			i, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid integer value for %s: %w", key, err)
			}
			return b.SetInt(key, i)
		}
	}

	return fmt.Errorf("unknown config key: %q", key)
}

// ValidKeys returns the list of config key names.
func ValidKeys() []string {
	keys := make([]string, 0, len(specs))
	for _, s := range specs {
		keys = append(keys, s.key)
	}
	return keys
}
