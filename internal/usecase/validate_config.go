package usecase

import (
	"encoding/hex"
	"strings"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// placeholderValues are the example values shipped in the README and .env.example.
// Matching is case-insensitive.
var placeholderValues = map[string][]string{
	config.EnvPrivateKey: {
		"your_private_key_here",
		"your-private-key",
		"your_private_key",
		"0xyour_private_key",
		"<your-private-key>",
		"private_key",
	},
	config.EnvAPIKey: {
		"your_api_key_here",
		"your-api-key",
		"your_api_key",
		"<your-api-key>",
		"api_key",
	},
}

// ConfigValidator checks the environment before any chain interaction on networks
// that need real credentials.
type ConfigValidator struct{}

// NewConfigValidator creates a new ConfigValidator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate returns a *domain.ConfigError for the first rejected key. Networks that
// do not require credentials are accepted without looking at env.
func (v *ConfigValidator) Validate(profile *domain.NetworkProfile, env map[string]string) error {
	if !profile.RequiresCredentials {
		return nil
	}

	for _, key := range config.RecognizedEnvKeys() {
		value := strings.TrimSpace(env[key])
		if reason, ok := checkEnvValue(key, value); !ok {
			return &domain.ConfigError{Network: profile.Name, Key: key, Reason: reason}
		}
	}

	return nil
}

func checkEnvValue(key, value string) (domain.ConfigReason, bool) {
	if value == "" {
		return domain.ConfigReasonMissing, false
	}
	if IsPlaceholder(key, value) {
		return domain.ConfigReasonPlaceholder, false
	}
	if key == config.EnvPrivateKey && !isPrivateKeyHex(value) {
		return domain.ConfigReasonMalformed, false
	}
	return "", true
}

// IsPlaceholder reports whether value is the documented example for key
func IsPlaceholder(key, value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, placeholder := range placeholderValues[key] {
		if value == placeholder {
			return true
		}
	}
	return false
}

func isPrivateKeyHex(value string) bool {
	raw := strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	if len(raw) != 64 {
		return false
	}
	_, err := hex.DecodeString(raw)
	return err == nil
}
