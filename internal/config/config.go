// Package config provides configuration structures and loading for crmchart.
package config

// Config represents the complete application configuration.
type Config struct {
	Logging        LoggingConfig        `yaml:"logging" mapstructure:"logging"`
	Output         OutputConfig         `yaml:"output" mapstructure:"output"`
	MetadataSource MetadataSourceConfig `yaml:"metadata_source" mapstructure:"metadata_source"`
}

// Metadata source types.
const (
	SourceNone  = "none"
	SourceMySQL = "mysql"
	SourceRedis = "redis"
)

// MetadataSourceConfig selects where entity metadata missing from a build
// request is looked up.
type MetadataSourceConfig struct {
	Type  string         `yaml:"type" mapstructure:"type"` // none, mysql, redis
	MySQL DatabaseConfig `yaml:"mysql" mapstructure:"mysql"`
	Redis RedisConfig    `yaml:"redis" mapstructure:"redis"`
}

// DatabaseConfig represents a MySQL connection to the metadata database.
type DatabaseConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	Table              string `yaml:"table" mapstructure:"table"`
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// RedisConfig represents the Redis metadata cache.
type RedisConfig struct {
	Addr      string `yaml:"addr" mapstructure:"addr"`
	Password  string `yaml:"password" mapstructure:"password"`
	DB        int    `yaml:"db" mapstructure:"db"`
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// OutputConfig controls how the finished chart config is written.
type OutputConfig struct {
	Pretty bool   `yaml:"pretty" mapstructure:"pretty"`
	Path   string `yaml:"path" mapstructure:"path"` // empty means stdout
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Output: OutputConfig{
			Pretty: false,
		},
		MetadataSource: MetadataSourceConfig{
			Type: SourceNone,
			MySQL: DatabaseConfig{
				Port:               3306,
				TLS:                "preferred",
				Table:              "entity_metadata",
				MaxConnections:     4,
				MaxIdleConnections: 2,
			},
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "crmchart:entity:",
			},
		},
	}
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat, sourceType string, pretty bool) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if sourceType != "" {
		c.MetadataSource.Type = sourceType
	}
	if pretty {
		c.Output.Pretty = true
	}
}
