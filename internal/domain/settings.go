package domain

import "strings"

// SettingAPIKey is the settings key holding the catalog API key.
const SettingAPIKey = "catalog.api_key"

// Settings is a string key-value lookup supplied by the host application.
type Settings interface {
	// Lookup returns the value for key and whether it is set.
	Lookup(key string) (string, bool)
}

// StaticSettings is a fixed in-memory Settings implementation.
type StaticSettings map[string]string

// Lookup implements Settings. Blank values count as unset.
func (s StaticSettings) Lookup(key string) (string, bool) {
	v, ok := s[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}
