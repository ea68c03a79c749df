// Package config resolves API keys and provider settings.
//
// Key lookup precedence: the secrets store (secrets.json) wins over
// environment variables, which win over the plain config.json file. Both
// files are flat key -> string maps.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	secretsFile = "secrets.json"
	configFile  = "config.json"
)

// APIKey resolves the named key (e.g. "GEMINI_API_KEY") through the
// precedence chain. Returns "" when the key is nowhere to be found.
func APIKey(name string) string {
	if v := fromKeyFile(secretsFile, name); v != "" {
		return v
	}
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fromKeyFile(configFile, name)
}

// RequireAPIKey is APIKey but with an error instead of an empty fallback,
// for call sites that cannot proceed without the key.
func RequireAPIKey(name string) (string, error) {
	if v := APIKey(name); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%s not set in %s, environment, or %s", name, secretsFile, configFile)
}

// fromKeyFile reads one value out of a flat JSON key->string mapping.
// A missing or malformed file is treated as an empty store.
func fromKeyFile(path, name string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var keys map[string]string
	if err := json.Unmarshal(data, &keys); err != nil {
		return ""
	}
	return keys[name]
}
