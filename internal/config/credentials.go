package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Credential environment variables. The unprefixed names are accepted as a
// fallback so an existing Airtable setup works unchanged.
const (
	EnvAPIKey         = "CONFIRMVOTES_AIRTABLE_API_KEY"
	EnvBaseID         = "CONFIRMVOTES_AIRTABLE_BASE_ID"
	EnvAPIKeyFallback = "AIRTABLE_API_KEY"
	EnvBaseIDFallback = "AIRTABLE_BASE_ID"
)

// ErrMissingCredentials is returned when the API key or base id is unset.
// Data commands treat it as fatal before making any request.
var ErrMissingCredentials = errors.New("missing Airtable credentials")

// Credentials authenticate against one base.
type Credentials struct {
	APIKey string
	BaseID string
}

// LoadCredentials reads credentials from the environment.
func LoadCredentials() (Credentials, error) {
	return LoadCredentialsFrom(os.LookupEnv)
}

// LoadCredentialsFrom reads credentials through lookupEnv and reports every
// missing variable at once.
func LoadCredentialsFrom(lookupEnv func(string) (string, bool)) (Credentials, error) {
	creds := Credentials{
		APIKey: firstSet(lookupEnv, EnvAPIKey, EnvAPIKeyFallback),
		BaseID: firstSet(lookupEnv, EnvBaseID, EnvBaseIDFallback),
	}

	var missing []string
	if creds.APIKey == "" {
		missing = append(missing, EnvAPIKey)
	}
	if creds.BaseID == "" {
		missing = append(missing, EnvBaseID)
	}
	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("%w: set %s", ErrMissingCredentials, strings.Join(missing, " and "))
	}
	return creds, nil
}

func firstSet(lookupEnv func(string) (string, bool), names ...string) string {
	for _, name := range names {
		if v, ok := lookupEnv(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Redacted returns the API key with all but its last four characters masked.
func (c Credentials) Redacted() string {
	const visible = 4
	if len(c.APIKey) <= visible {
		return strings.Repeat("*", len(c.APIKey))
	}
	return strings.Repeat("*", len(c.APIKey)-visible) + c.APIKey[len(c.APIKey)-visible:]
}
