package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "BW"

	KeyAPIBaseURL          = "api.base_url"
	KeyAPITimeout          = "api.timeout"
	KeyAuthRegisterTimeout = "auth.register_timeout"
	KeySessionPath         = "session.path"
	KeySecretsDir          = "secrets.dir"
	KeySecretsBackend      = "secrets.backend"
	KeySecretsPassDir      = "secrets.pass_dir"
	KeyGoogleClientID      = "google.client_id"
	KeyGoogleClientSecret  = "google.client_secret"
	KeyGoogleAuthURL       = "google.auth_url"
	KeyGoogleTokenURL      = "google.token_url"
	KeyGoogleDeviceCodeURL = "google.device_code_url"
	KeyGoogleListen        = "google.listen"
	KeyGoogleTimeout       = "google.timeout"
	KeyLogLevel            = "log.level"
)

const (
	defaultAPIBaseURL      = "http://localhost:5000"
	defaultAPITimeout      = 30 * time.Second
	defaultRegisterTimeout = 15 * time.Second
	defaultGoogleListen    = "127.0.0.1:0"
	defaultGoogleTimeout   = 5 * time.Minute
	defaultLogLevel        = "warn"
)

// Secret backends.
const (
	SecretsBackendAuto = "auto"
	SecretsBackendPass = "pass"
	SecretsBackendFile = "file"
)

type Config struct {
	API     APIConfig
	Auth    AuthConfig
	Session SessionConfig
	Secrets SecretsConfig
	Google  GoogleConfig
	Log     LogConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type AuthConfig struct {
	RegisterTimeout time.Duration
}

type SessionConfig struct {
	Path string
}

type SecretsConfig struct {
	Dir string
	// Backend is auto (pass with file fallback), pass or file.
	Backend string
	// PassDir overrides the pass store location; empty keeps pass defaults.
	PassDir string
}

type GoogleConfig struct {
	ClientID      string
	ClientSecret  string
	AuthURL       string
	TokenURL      string
	DeviceCodeURL string
	ListenAddr    string
	Timeout       time.Duration
}

type LogConfig struct {
	Level string
}

type Options struct {
	// ConfigFile overrides ~/.bizweb/config.toml.
	ConfigFile string
	// EnvFile is loaded into the process environment before BW_* lookups.
	// A missing file is ignored.
	EnvFile string
	HomeDir string
}

// Load resolves settings from, in increasing priority: defaults, the config
// file, the .env file and the process environment. The returned viper
// instance carries the same values for adapters that read it directly.
func Load(opts Options) (*Config, *viper.Viper, error) {
	home := opts.HomeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve home directory: %w", err)
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v, home)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = filepath.Join(home, ".bizweb", "config.toml")
	}
	if _, err := os.Stat(configFile); err == nil {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) || opts.ConfigFile != "" {
		return nil, nil, fmt.Errorf("stat config %s: %w", configFile, err)
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimSpace(v.GetString(KeyAPIBaseURL)),
			Timeout: v.GetDuration(KeyAPITimeout),
		},
		Auth: AuthConfig{
			RegisterTimeout: v.GetDuration(KeyAuthRegisterTimeout),
		},
		Session: SessionConfig{
			Path: v.GetString(KeySessionPath),
		},
		Secrets: SecretsConfig{
			Dir:     v.GetString(KeySecretsDir),
			Backend: strings.ToLower(strings.TrimSpace(v.GetString(KeySecretsBackend))),
			PassDir: strings.TrimSpace(v.GetString(KeySecretsPassDir)),
		},
		Google: GoogleConfig{
			ClientID:      strings.TrimSpace(v.GetString(KeyGoogleClientID)),
			ClientSecret:  strings.TrimSpace(v.GetString(KeyGoogleClientSecret)),
			AuthURL:       v.GetString(KeyGoogleAuthURL),
			TokenURL:      v.GetString(KeyGoogleTokenURL),
			DeviceCodeURL: v.GetString(KeyGoogleDeviceCodeURL),
			ListenAddr:    v.GetString(KeyGoogleListen),
			Timeout:       v.GetDuration(KeyGoogleTimeout),
		},
		Log: LogConfig{
			Level: v.GetString(KeyLogLevel),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}

	return cfg, v, nil
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault(KeyAPIBaseURL, defaultAPIBaseURL)
	v.SetDefault(KeyAPITimeout, defaultAPITimeout)
	v.SetDefault(KeyAuthRegisterTimeout, defaultRegisterTimeout)
	v.SetDefault(KeySessionPath, filepath.Join(home, ".bizweb", "session.toml"))
	v.SetDefault(KeySecretsDir, filepath.Join(home, ".bizweb", "secrets"))
	v.SetDefault(KeySecretsBackend, SecretsBackendAuto)
	v.SetDefault(KeySecretsPassDir, "")
	v.SetDefault(KeyGoogleClientID, "")
	v.SetDefault(KeyGoogleClientSecret, "")
	v.SetDefault(KeyGoogleAuthURL, "")
	v.SetDefault(KeyGoogleTokenURL, "")
	v.SetDefault(KeyGoogleDeviceCodeURL, "")
	v.SetDefault(KeyGoogleListen, defaultGoogleListen)
	v.SetDefault(KeyGoogleTimeout, defaultGoogleTimeout)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%s must not be empty", KeyAPIBaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyAPITimeout)
	}
	if c.Auth.RegisterTimeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyAuthRegisterTimeout)
	}
	switch c.Secrets.Backend {
	case SecretsBackendAuto, SecretsBackendPass, SecretsBackendFile:
	default:
		return fmt.Errorf("%s must be one of auto, pass or file, got %q", KeySecretsBackend, c.Secrets.Backend)
	}
	return nil
}
