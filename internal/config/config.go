package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type TokenMode string

const (
	// TokenModeUnsigned carries the identity as plain JSON. Anyone can forge it.
	TokenModeUnsigned TokenMode = "unsigned"
	// TokenModeSigned carries the identity as an HS256 JWT.
	TokenModeSigned TokenMode = "signed"
)

type PasswordDigest string

const (
	PasswordDigestSHA256 PasswordDigest = "sha256"
	PasswordDigestBLAKE3 PasswordDigest = "blake3"
)

type DeserializeMode string

const (
	// DeserializeModeStrict only reconstructs plain scalars, lists and string-keyed maps.
	DeserializeModeStrict DeserializeMode = "strict"
	// DeserializeModeUnrestricted reconstructs any object graph the decoder understands.
	DeserializeModeUnrestricted DeserializeMode = "unrestricted"
)

// Config holds the configuration for the sweepbox server.
type Config struct {
	// Listen is the address the HTTP server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// LogLevel is the default log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	// DataDir is the filesystem root for all persisted data.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
	// UploadDir is the directory uploaded files are stored in. Defaults to <data_dir>/uploads.
	UploadDir string `yaml:"upload_dir" mapstructure:"upload_dir"`
	// MaxUploadBytes is the maximum accepted request body size.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
	// Gzip enables gzip compression of responses.
	Gzip bool `yaml:"gzip" mapstructure:"gzip"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Auth holds the authentication configuration.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`
	// Deserialize holds the configuration for the deserialization endpoint.
	Deserialize *DeserializeConfig `yaml:"deserialize" mapstructure:"deserialize"`
	// Exec holds the configuration for the privileged command endpoint.
	Exec *ExecConfig `yaml:"exec" mapstructure:"exec"`
	// Retention holds the configuration for the upload retention sweep.
	Retention *RetentionConfig `yaml:"retention" mapstructure:"retention"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the path to the database file. Defaults to <data_dir>/app.db.
	Path string `yaml:"path" mapstructure:"path"`
}

// AuthConfig holds the authentication configuration.
type AuthConfig struct {
	// TokenMode selects how identity tokens are encoded. Options: "unsigned", "signed".
	TokenMode TokenMode `yaml:"token_mode" mapstructure:"token_mode"`
	// TokenSecret is the HMAC secret used in signed mode.
	TokenSecret string `yaml:"token_secret" mapstructure:"token_secret"`
	// TokenTTL is the lifetime of signed tokens. Zero means tokens never expire.
	TokenTTL time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
	// PasswordDigest is the unsalted digest used for stored passwords. Options: "sha256", "blake3".
	PasswordDigest PasswordDigest `yaml:"password_digest" mapstructure:"password_digest"`
	// LegacyLookup builds the credential lookup query by string concatenation.
	// Only meant for reproducing the injectable lookup in tests.
	LegacyLookup bool `yaml:"legacy_lookup" mapstructure:"legacy_lookup"`
}

// DeserializeConfig holds the configuration for the deserialization endpoint.
type DeserializeConfig struct {
	// Mode selects the decoder. Options: "strict", "unrestricted".
	Mode DeserializeMode `yaml:"mode" mapstructure:"mode"`
	// MaxDepth is the maximum nesting level accepted in strict mode.
	MaxDepth int `yaml:"max_depth" mapstructure:"max_depth"`
}

// ExecConfig holds the configuration for the privileged command endpoint.
type ExecConfig struct {
	// Enabled mounts the /admin/exec route.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Shell is the shell used to run commands as `<shell> -c <cmd>`.
	Shell string `yaml:"shell" mapstructure:"shell"`
}

// RetentionConfig holds the configuration for the retention sweep.
type RetentionConfig struct {
	// Enabled indicates whether the retention sweep runs in the background.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Interval is the delay between two sweeps.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	// MaxAge is the age after which an uploaded file is deleted.
	MaxAge time.Duration `yaml:"max_age" mapstructure:"max_age"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
// If no config file is found, the defaults are used.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("SWEEPBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.sweepbox")
		v.AddConfigPath("/etc/sweepbox")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	warnWeakenedModes(&c)

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "127.0.0.1:5000")
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("upload_dir", "")
	v.SetDefault("max_upload_bytes", 10*1024*1024) // 10 MiB
	v.SetDefault("gzip", false)

	v.SetDefault("database.path", "")

	v.SetDefault("auth.token_mode", TokenModeUnsigned)
	v.SetDefault("auth.token_secret", "")
	v.SetDefault("auth.token_ttl", 0)
	v.SetDefault("auth.password_digest", PasswordDigestSHA256)
	v.SetDefault("auth.legacy_lookup", false)

	v.SetDefault("deserialize.mode", DeserializeModeStrict)
	v.SetDefault("deserialize.max_depth", 16)

	v.SetDefault("exec.enabled", true)
	v.SetDefault("exec.shell", "/bin/sh")

	v.SetDefault("retention.enabled", true)
	v.SetDefault("retention.interval", time.Minute)
	v.SetDefault("retention.max_age", time.Hour)
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing sweepbox config")
	}

	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be greater than 0")
	}

	if c.Auth == nil {
		return fmt.Errorf("missing auth config")
	}
	switch c.Auth.TokenMode {
	case TokenModeUnsigned:
	case TokenModeSigned:
		if c.Auth.TokenSecret == "" {
			return fmt.Errorf("token secret is required when token mode is %q", TokenModeSigned)
		}
	default:
		return fmt.Errorf("unknown token mode %q", c.Auth.TokenMode)
	}
	if c.Auth.TokenTTL < 0 {
		return fmt.Errorf("token ttl must not be negative")
	}
	if !lo.Contains([]PasswordDigest{PasswordDigestSHA256, PasswordDigestBLAKE3}, c.Auth.PasswordDigest) {
		return fmt.Errorf("unknown password digest %q", c.Auth.PasswordDigest)
	}

	if c.Deserialize == nil {
		return fmt.Errorf("missing deserialize config")
	}
	if !lo.Contains([]DeserializeMode{DeserializeModeStrict, DeserializeModeUnrestricted}, c.Deserialize.Mode) {
		return fmt.Errorf("unknown deserialize mode %q", c.Deserialize.Mode)
	}
	if c.Deserialize.MaxDepth <= 0 {
		return fmt.Errorf("deserialize max depth must be greater than 0")
	}

	if c.Exec == nil {
		return fmt.Errorf("missing exec config")
	}
	if c.Exec.Enabled && c.Exec.Shell == "" {
		return fmt.Errorf("exec shell is required when exec is enabled")
	}

	if c.Retention == nil {
		return fmt.Errorf("missing retention config")
	}
	if c.Retention.Enabled {
		if c.Retention.Interval <= 0 {
			return fmt.Errorf("retention interval must be greater than 0")
		}
		if c.Retention.MaxAge <= 0 {
			return fmt.Errorf("retention max age must be greater than 0")
		}
	}

	return nil
}

// sanitizeConfig sanitizes the configuration values and fills in derived paths.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = strings.TrimSpace(c.Listen)
	c.DataDir = filepath.Clean(strings.TrimSpace(c.DataDir))

	if strings.TrimSpace(c.UploadDir) == "" {
		c.UploadDir = filepath.Join(c.DataDir, "uploads")
	}

	if c.Database == nil {
		c.Database = &DatabaseConfig{}
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		c.Database.Path = filepath.Join(c.DataDir, "app.db")
	}

	if c.Auth != nil {
		c.Auth.TokenMode = TokenMode(strings.ToLower(strings.TrimSpace(string(c.Auth.TokenMode))))
		c.Auth.PasswordDigest = PasswordDigest(strings.ToLower(strings.TrimSpace(string(c.Auth.PasswordDigest))))
	}
	if c.Deserialize != nil {
		c.Deserialize.Mode = DeserializeMode(strings.ToLower(strings.TrimSpace(string(c.Deserialize.Mode))))
	}
}

// warnWeakenedModes logs a warning for every enabled option that reproduces a known weakness.
func warnWeakenedModes(c *Config) {
	if c.Auth.TokenMode == TokenModeUnsigned {
		log.Warn("Tokens are unsigned: any client can claim any username and admin flag", "auth.token_mode", c.Auth.TokenMode)
	}
	if c.Auth.LegacyLookup {
		log.Warn("Credential lookup concatenates the username into SQL", "auth.legacy_lookup", true)
	}
	if c.Deserialize.Mode == DeserializeModeUnrestricted {
		log.Warn("Deserialization accepts arbitrary object graphs", "deserialize.mode", c.Deserialize.Mode)
	}
	if c.Exec.Enabled && !IsLoopback(c.Listen) {
		log.Warn("Command execution endpoint is reachable from the network", "listen", c.Listen)
	}
}

// IsLoopback reports whether the listen address only binds a loopback interface.
func IsLoopback(listen string) bool {
	host, _, err := net.SplitHostPort(listen)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
