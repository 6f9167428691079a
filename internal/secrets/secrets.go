// Package secrets loads credentials kept outside the project configuration.
//
// The secrets file is a YAML map of names to values:
//
//	values:
//	  PG_PASSWORD: "s3cr3t"
//	  MSSQL_DSN: "sqlserver://sa:pw@db:1433?database=kutuphane"
//
// Configuration strings reference them as ${PG_PASSWORD}. Names not found in
// the file fall back to the environment.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/omrozmen/libseed/internal/logging"
)

const (
	// DefaultSecretsDir is the default directory for secrets
	DefaultSecretsDir = ".secrets"
	// DefaultSecretsFile is the default filename for secrets
	DefaultSecretsFile = "libseed.yaml"
	// SecretsFileEnvVar allows overriding the secrets file location
	SecretsFileEnvVar = "LIBSEED_SECRETS_FILE"
)

// Config is the content of the secrets file.
type Config struct {
	Values map[string]string `yaml:"values"`
}

// NotFoundError reports a missing secrets file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("secrets file not found: %s", e.Path)
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configErr    error
)

// Load reads the secrets file once per process.
func Load() (*Config, error) {
	configOnce.Do(func() {
		globalConfig, configErr = loadFromFile(GetSecretsPath())
	})
	return globalConfig, configErr
}

// Reset forgets the loaded secrets. Used by tests.
func Reset() {
	configOnce = sync.Once{}
	globalConfig = nil
	configErr = nil
}

// GetSecretsPath returns the secrets file location: $LIBSEED_SECRETS_FILE,
// else ~/.secrets/libseed.yaml.
func GetSecretsPath() string {
	if envPath := os.Getenv(SecretsFileEnvVar); envPath != "" {
		return envPath
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", DefaultSecretsDir, DefaultSecretsFile)
	}
	return filepath.Join(homeDir, DefaultSecretsDir, DefaultSecretsFile)
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("reading secrets file: %w", err)
	}

	if info, err := os.Stat(path); err == nil {
		if mode := info.Mode().Perm(); mode&0o077 != 0 {
			return nil, fmt.Errorf("secrets file %s has insecure permissions (%04o); run: chmod 600 %s", path, mode, path)
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing secrets file: %w", err)
	}
	return &cfg, nil
}

// Lookup returns the value of name from the secrets file, or from the
// environment when the file does not define it. An unreadable secrets file
// is reported once and then ignored.
func Lookup(name string) string {
	cfg, err := Load()
	if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			warnOnce.Do(func() { logging.Warn("Ignoring secrets file: %v", err) })
		}
	} else if v, ok := cfg.Values[name]; ok {
		return v
	}
	return os.Getenv(name)
}

var warnOnce sync.Once

// Expand replaces ${name} and $name in s using Lookup.
func Expand(s string) string {
	return os.Expand(s, Lookup)
}
