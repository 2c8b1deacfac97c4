// Package config loads the wiki connection settings and API
// credentials. Wiki versions live in a JSON config file; secrets stay
// in the environment, the config only names the variables that hold
// them.
package config

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/innovationsinfundraising/wikisync/pkg/errors"
)

// Default locations and environment variable names.
const (
	DefaultFile       = "config.json"
	AirtableKeyEnvVar = "AIRTABLE_API_KEY"
)

// Wiki holds the connection settings for one wiki version.
type Wiki struct {
	URL      string `mapstructure:"wiki_url"`
	Username string `mapstructure:"username"`
	// PasswordKey names the environment variable holding the wiki
	// password. The password itself never lives in the config file.
	PasswordKey string `mapstructure:"password_key"`
}

// Password reads the wiki password from the environment.
func (w Wiki) Password() (string, error) {
	pass := os.Getenv(w.PasswordKey)
	if pass == "" {
		return "", &errors.AuthenticationError{
			Service: "dokuwiki",
			Message: "password not set, export " + w.PasswordKey,
		}
	}
	return pass, nil
}

// Config maps wiki version names to their connection settings.
// Deployments typically define an "official" and a "test" version.
type Config struct {
	versions map[string]Wiki
}

// Load reads the config file. An empty path uses the default location.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.NewConfigError("config", "reading "+path, err)
	}

	versions := make(map[string]Wiki)
	for _, name := range v.AllKeys() {
		// AllKeys returns nested keys like "official.wiki_url"; we
		// want the top-level version names.
		version, _, _ := strings.Cut(name, ".")
		if _, ok := versions[version]; ok {
			continue
		}
		var w Wiki
		if err := v.UnmarshalKey(version, &w); err != nil {
			return nil, errors.NewConfigError("config", "decoding version "+version, err)
		}
		versions[version] = w
	}
	return &Config{versions: versions}, nil
}

// Wiki returns the settings for a wiki version.
func (c *Config) Wiki(version string) (Wiki, error) {
	w, ok := c.versions[version]
	if !ok {
		return Wiki{}, errors.NewConfigError("config",
			"unknown wiki version "+version+", choose from: "+strings.Join(c.Versions(), ", "), nil)
	}
	if w.URL == "" {
		return Wiki{}, errors.NewConfigError("config", "wiki version "+version+" has no wiki_url", nil)
	}
	return w, nil
}

// Versions returns the configured wiki version names, sorted.
func (c *Config) Versions() []string {
	names := make([]string, 0, len(c.versions))
	for name := range c.versions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AirtableKey reads the Airtable API key from the environment.
func AirtableKey() (string, error) {
	key := os.Getenv(AirtableKeyEnvVar)
	if key == "" {
		return "", &errors.AuthenticationError{
			Service: "airtable",
			Message: "API key not set, export " + AirtableKeyEnvVar,
		}
	}
	return key, nil
}
