package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
	"gopkg.in/yaml.v3"
)

const (
	defaultHeaderRow         = 8
	defaultMaxReportedErrors = 100
	defaultLogMaxSizeMB      = 100
	defaultLogMaxBackups     = 7
	defaultLogMaxAgeDays     = 7
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Roster   RosterConfig   `yaml:"roster"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
	ApplicationName    string        `yaml:"application_name"`
	TraceLevel         string        `yaml:"trace_level"`
}

// LogConfig はログ出力に関する設定です。
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// RosterConfig は名簿ファイルの取り込みと分類に関する設定です。
// HeaderRow は 1 始まりの行番号で、それより上の行は読み飛ばします。
type RosterConfig struct {
	HeaderRow             int              `yaml:"header_row"`
	Sheet                 string           `yaml:"sheet"`
	CSVDelimiter          string           `yaml:"csv_delimiter"`
	Columns               roster.ColumnMap `yaml:"columns"`
	RoleOverridesPath     string           `yaml:"role_overrides_path"`
	CareLineOverridesPath string           `yaml:"care_line_overrides_path"`
	MaxReportedErrors     int              `yaml:"max_reported_errors"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	db := &c.Database
	if err := db.validateAndNormalize(); err != nil {
		return err
	}

	if err := c.Log.validateAndNormalize(); err != nil {
		return err
	}

	if err := c.Roster.validateAndNormalize(); err != nil {
		return err
	}

	return nil
}

func (l *LogConfig) validateAndNormalize() error {
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	if l.Level == "" {
		l.Level = "info"
	}

	l.Format = strings.ToLower(strings.TrimSpace(l.Format))
	switch l.Format {
	case "":
		l.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", l.Format)
	}

	l.Output = strings.ToLower(strings.TrimSpace(l.Output))
	switch l.Output {
	case "":
		l.Output = "stdout"
	case "stdout":
	case "file", "both":
		if l.File == "" {
			return fmt.Errorf("config: log.file must be set when log.output is %s", l.Output)
		}
	default:
		return fmt.Errorf("config: log.output must be stdout, file or both, got %q", l.Output)
	}

	if l.MaxSizeMB <= 0 {
		l.MaxSizeMB = defaultLogMaxSizeMB
	}
	if l.MaxBackups <= 0 {
		l.MaxBackups = defaultLogMaxBackups
	}
	if l.MaxAgeDays <= 0 {
		l.MaxAgeDays = defaultLogMaxAgeDays
	}

	return nil
}

func (r *RosterConfig) validateAndNormalize() error {
	if r.HeaderRow < 0 {
		return fmt.Errorf("config: roster.header_row must not be negative")
	}
	if r.HeaderRow == 0 {
		r.HeaderRow = defaultHeaderRow
	}
	if len([]rune(r.CSVDelimiter)) > 1 {
		return fmt.Errorf("config: roster.csv_delimiter must be a single character")
	}
	if r.MaxReportedErrors <= 0 {
		r.MaxReportedErrors = defaultMaxReportedErrors
	}
	r.Columns = r.Columns.WithDefaults()
	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.ApplicationName == "" {
		d.ApplicationName = "turnover-analytics"
	}
	if d.TraceLevel == "" {
		d.TraceLevel = "warn"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。
// ユーザー名とパスワードは URL エスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}
