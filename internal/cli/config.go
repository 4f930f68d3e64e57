package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/promptkeeper/internal/server"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDatabasePath = "database_path"
	cfgKeyAPIKey       = "api_secret_key"
	cfgKeyListenAddr   = "listen_addr"
	cfgKeyLogLevel     = "log_level"
	cfgKeyLogFormat    = "log_format"

	defaultListenAddr = ":5173"
	defaultLogLevel   = "info"
	defaultLogFormat  = "console"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# promptkeeper configuration

# Database file (optional; overridable by --database flag)
# database_path: data/prompt-manager.sqlite

# Shared secret for the /api/sync routes (or API_SECRET_KEY env)
# api_secret_key:

listen_addr: ":5173"
log_level: info
log_format: console
`

// envBindings lists the environment variables each key reads. The database
// path is absent on purpose: it resolves through the paths package so that
// config.yaml beats the environment for it.
var envBindings = map[string][]string{
	cfgKeyAPIKey:     {"PROMPTKEEPER_API_SECRET_KEY", "API_SECRET_KEY"},
	cfgKeyListenAddr: {"PROMPTKEEPER_LISTEN_ADDR"},
	cfgKeyLogLevel:   {"PROMPTKEEPER_LOG_LEVEL"},
	cfgKeyLogFormat:  {"PROMPTKEEPER_LOG_FORMAT"},
}

// settings is the resolved configuration for one invocation.
type settings struct {
	DatabasePath string
	APIKey       string
	ListenAddr   string
	LogLevel     string
	LogFormat    string
}

// serverConfig converts settings to the HTTP server configuration.
func (s settings) serverConfig() server.Config {
	return server.Config{ListenAddr: s.ListenAddr, APIKey: s.APIKey}
}

// loadSettings reads config.yaml from configDir using Viper, creating the
// directory and a default file on first run. A missing config.yaml is not
// an error.
func loadSettings(configDir string) (settings, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return settings{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return settings{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyListenAddr, defaultListenAddr)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, defaultLogFormat)
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return settings{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	return settings{
		DatabasePath: v.GetString(cfgKeyDatabasePath),
		APIKey:       v.GetString(cfgKeyAPIKey),
		ListenAddr:   v.GetString(cfgKeyListenAddr),
		LogLevel:     v.GetString(cfgKeyLogLevel),
		LogFormat:    v.GetString(cfgKeyLogFormat),
	}, nil
}

func configFilePath(configDir string) string {
	return filepath.Join(configDir, configFileExt)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := configFilePath(configDir)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
