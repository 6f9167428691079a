// Package config loads the libseed YAML configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/omrozmen/libseed/internal/logging"
	"github.com/omrozmen/libseed/internal/roles"
	"github.com/omrozmen/libseed/internal/secrets"
	"github.com/omrozmen/libseed/internal/store"
)

// Default input files, matching the sheets the library keeps by hand.
const (
	DefaultBooksPath    = "kitap listesi.xlsx"
	DefaultStudentsPath = "ogrenci_listesi.xlsx"
	DefaultLoansPath    = "odunc listesi.xlsx"
	DefaultHistoryPath  = ".libseed/history.db"
)

// Default table names for database locations.
var defaultTables = map[roles.Kind]string{
	roles.KindBook:    "kitaplar",
	roles.KindStudent: "ogrenciler",
	roles.KindLoan:    "odunc",
}

// Config is the complete configuration.
type Config struct {
	Targets  Targets       `yaml:"targets"`
	Seed     *uint64       `yaml:"seed"`
	Books    Source        `yaml:"books"`
	Students Source        `yaml:"students"`
	Loans    Source        `yaml:"loans"`
	Output   OutputConfig  `yaml:"output"`
	Statuses []string      `yaml:"statuses"`
	History  HistoryConfig `yaml:"history"`
	Logging  LoggingConfig `yaml:"logging"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-"`
}

// Targets are the row counts to reach.
type Targets struct {
	Books    int `yaml:"books"`
	Students int `yaml:"students"`
	Loans    int `yaml:"loans"`
}

// Source is where one table is read from.
type Source struct {
	store.Location `yaml:",inline"`

	// Connection builds the DSN for postgres and mssql when DSN is empty.
	Connection Connection `yaml:"connection"`

	// IDColumn names the identifier column added to a books or students
	// table that has none. Loans are numbered in their own layout.
	IDColumn string `yaml:"id_column"`
}

// Connection holds discrete database connection settings.
type Connection struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	Database               string `yaml:"database"`
	User                   string `yaml:"user"`
	Password               string `yaml:"password"`
	SSLMode                string `yaml:"ssl_mode"`
	Encrypt                *bool  `yaml:"encrypt"`
	TrustServerCertificate bool   `yaml:"trust_server_certificate"`
}

// OutputConfig overrides where each table is written. An empty location
// writes back to the input.
type OutputConfig struct {
	Books    store.Location `yaml:"books"`
	Students store.Location `yaml:"students"`
	Loans    store.Location `yaml:"loans"`
}

// HistoryConfig controls run recording.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// IsEnabled reports whether runs are recorded. Recording is on by default.
func (h HistoryConfig) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// LoggingConfig sets the log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		Targets:  Targets{Books: 200, Students: 100, Loans: 100},
		Books:    Source{Location: store.Location{Path: DefaultBooksPath}},
		Students: Source{Location: store.Location{Path: DefaultStudentsPath}},
		Loans:    Source{Location: store.Location{Path: DefaultLoansPath}},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads the configuration at path. Keys missing from the file keep
// their defaults; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logging.Debug("Config file %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg, err = Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Parse reads a configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	for _, ks := range c.sources() {
		ks.src.applyDefaults(ks.kind)
	}
}

type kindSource struct {
	kind roles.Kind
	src  *Source
}

func (c *Config) sources() []kindSource {
	return []kindSource{
		{roles.KindBook, &c.Books},
		{roles.KindStudent, &c.Students},
		{roles.KindLoan, &c.Loans},
	}
}

func (s *Source) applyDefaults(kind roles.Kind) {
	if isDatabase(s.ResolvedFormat()) && s.Table == "" {
		s.Table = defaultTables[kind]
	}
	switch s.ResolvedFormat() {
	case "postgres", "postgresql", "pg":
		if s.Connection.Port == 0 {
			s.Connection.Port = 5432
		}
		if s.Connection.SSLMode == "" {
			s.Connection.SSLMode = "prefer"
		}
	case "mssql", "sqlserver", "sql-server":
		if s.Connection.Port == 0 {
			s.Connection.Port = 1433
		}
	}
	if s.IDColumn == "" {
		switch kind {
		case roles.KindBook:
			s.IDColumn = "KitapID"
		case roles.KindStudent:
			s.IDColumn = "OgrenciID"
		}
	}
}

func isDatabase(format string) bool {
	switch format {
	case "sqlite", "sqlite3", "db", "postgres", "postgresql", "pg", "mssql", "sqlserver", "sql-server":
		return true
	}
	return false
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	var errs []string
	if c.Targets.Books < 0 || c.Targets.Students < 0 || c.Targets.Loans < 0 {
		errs = append(errs, "targets must not be negative")
	}
	for _, ks := range c.sources() {
		if err := ks.src.validate(); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", ks.kind, err))
		}
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err.Error())
	}
	if f := strings.ToLower(c.Logging.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Sprintf("invalid log format %q (want text or json)", c.Logging.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (s *Source) validate() error {
	format := s.ResolvedFormat()
	if format == "" {
		return fmt.Errorf("cannot tell the format of %q; set format", s.Path)
	}
	if _, err := store.Get(format); err != nil && !isKnownFormat(format) {
		return err
	}
	switch format {
	case "postgres", "postgresql", "pg", "mssql", "sqlserver", "sql-server":
		if s.DSN == "" && s.Connection.Host == "" {
			return errors.New("dsn or connection.host is required")
		}
	case "sqlite", "sqlite3", "db":
		if s.DSN == "" && s.Path == "" {
			return errors.New("path or dsn is required")
		}
	default:
		if s.Path == "" {
			return errors.New("path is required")
		}
	}
	return nil
}

// isKnownFormat covers formats whose store package may not be linked into
// the binary validating the file.
func isKnownFormat(format string) bool {
	switch format {
	case "xlsx", "excel", "xlsm", "csv", "text":
		return true
	}
	return isDatabase(format)
}

// ResolvedLocation returns the input location with ${NAME} references
// expanded from the secrets file or the environment and, for server databases, the DSN built from Connection.
func (s Source) ResolvedLocation() store.Location {
	loc := s.Location
	loc.DSN = secrets.Expand(loc.DSN)
	loc.Path = secrets.Expand(loc.Path)
	if loc.DSN != "" || s.Connection.Host == "" {
		return loc
	}
	c := s.Connection
	password := secrets.Expand(c.Password)
	switch loc.ResolvedFormat() {
	case "postgres", "postgresql", "pg":
		loc.DSN = buildPostgresDSN(c.Host, c.Port, c.Database, c.User, password, c.SSLMode)
	case "mssql", "sqlserver", "sql-server":
		encrypt := c.Encrypt == nil || *c.Encrypt
		loc.DSN = buildMSSQLDSN(c.Host, c.Port, c.Database, c.User, password, encrypt, c.TrustServerCertificate)
	}
	return loc
}

// OutputLocation returns where a table read from src is written: the
// override when set, otherwise the input location.
func OutputLocation(src Source, override store.Location) store.Location {
	if override.IsZero() {
		return src.ResolvedLocation()
	}
	override.DSN = secrets.Expand(override.DSN)
	override.Path = secrets.Expand(override.Path)
	if override.Format == "" && override.Path == "" {
		override.Format = src.ResolvedLocation().ResolvedFormat()
	}
	if override.Table == "" && isDatabase(override.ResolvedFormat()) {
		override.Table = src.Table
	}
	return override
}

// buildPostgresDSN builds a postgres:// URL. User and password are query
// escaped and the database path escaped.
func buildPostgresDSN(host string, port int, database, user, password, sslMode string) string {
	u := &url.URL{
		Scheme:   "postgres",
		Host:     host + ":" + strconv.Itoa(port),
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	dsn := u.Scheme + "://"
	if user != "" {
		dsn += url.QueryEscape(user)
		if password != "" {
			dsn += ":" + url.QueryEscape(password)
		}
		dsn += "@"
	}
	return dsn + u.Host + "/" + url.PathEscape(database) + "?" + u.RawQuery
}

// buildMSSQLDSN builds a sqlserver:// URL for go-mssqldb.
func buildMSSQLDSN(host string, port int, database, user, password string, encrypt, trustServerCert bool) string {
	dsn := "sqlserver://"
	if user != "" {
		dsn += url.QueryEscape(user)
		if password != "" {
			dsn += ":" + url.QueryEscape(password)
		}
		dsn += "@"
	}
	q := []string{
		"database=" + url.QueryEscape(database),
		"encrypt=" + strconv.FormatBool(encrypt),
	}
	if trustServerCert {
		q = append(q, "TrustServerCertificate=true")
	}
	return fmt.Sprintf("%s%s:%d?%s", dsn, host, port, strings.Join(q, "&"))
}

// Redacted returns the configuration as YAML with passwords and DSNs
// masked, for recording alongside a run.
func (c *Config) Redacted() string {
	cp := *c
	for _, src := range []*Source{&cp.Books, &cp.Students, &cp.Loans} {
		if src.DSN != "" {
			src.DSN = "***"
		}
		if src.Connection.Password != "" {
			src.Connection.Password = "***"
		}
	}
	for _, loc := range []*store.Location{&cp.Output.Books, &cp.Output.Students, &cp.Output.Loans} {
		if loc.DSN != "" {
			loc.DSN = "***"
		}
	}
	out, err := yaml.Marshal(&cp)
	if err != nil {
		return ""
	}
	return string(out)
}
