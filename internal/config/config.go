package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultMaxMessages  = 500
	defaultFetchTimeout = 10 * time.Second
)

type Profile struct {
	Username string `yaml:"username"`
	Token    string `yaml:"token"`
	ClientID string `yaml:"client_id,omitempty"`
	Channel  string `yaml:"channel"`
}

// Frontend holds display and widget settings shared by every profile.
type Frontend struct {
	OnlyLiveFollowed bool          `yaml:"only_get_live_followed_channels"`
	MaxMessages      int           `yaml:"max_messages"`
	ShowTimestamps   bool          `yaml:"show_timestamps"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
}

type Config struct {
	Profiles      map[string]Profile `yaml:"profiles"`
	ActiveProfile string             `yaml:"active_profile"`
	Frontend      Frontend           `yaml:"frontend"`
	LogFile       string             `yaml:"log_file,omitempty"`

	path           string
	currentProfile *Profile
}

func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the config at configPath, creating a default one if the
// file does not exist yet.
func LoadFrom(configPath string) (*Config, error) {
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.path = configPath
	config.applyDefaults()

	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

// IsValid reports whether the active profile can log into chat.
func (c *Config) IsValid() bool {
	return c.currentProfile != nil &&
		c.currentProfile.Token != "" &&
		c.currentProfile.Username != "" &&
		c.currentProfile.Channel != ""
}

// Current returns a copy of the active profile.
func (c *Config) Current() Profile {
	if c.currentProfile == nil {
		return Profile{}
	}
	return *c.currentProfile
}

// UseProfile makes name the active profile for this process.
func (c *Config) UseProfile(name string) error {
	if _, exists := c.Profiles[name]; !exists {
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	c.ActiveProfile = name
	return c.setCurrentProfile()
}

// SetChannel changes the channel of the active profile.
func (c *Config) SetChannel(channel string) {
	channel = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(channel)), "#")
	if c.currentProfile == nil {
		return
	}
	c.currentProfile.Channel = channel
	c.Profiles[c.ActiveProfile] = *c.currentProfile
}

func (c *Config) Path() string {
	return c.path
}

// LogPath returns the log file location, next to the config file by default.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(filepath.Dir(c.path), "roritwitch.log")
}

// Summary returns a printable description with secrets masked.
func (c *Config) Summary() string {
	p := c.Current()
	return fmt.Sprintf(
		"profile=%s username=%s channel=%s token=%s client_id=%s only_live=%t max_messages=%d",
		emptyAsDefault(c.ActiveProfile, "(none)"),
		emptyAsDefault(p.Username, "(empty)"),
		emptyAsDefault(p.Channel, "(empty)"),
		MaskSecret(p.Token),
		emptyAsDefault(p.ClientID, "(from token)"),
		c.Frontend.OnlyLiveFollowed,
		c.Frontend.MaxMessages,
	)
}

func getConfigPath() (string, error) {
	var configDir string

	// Use RORITWITCH_HOME if set, otherwise use user's home directory
	if home := os.Getenv("RORITWITCH_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".roritwitch", "config.yaml"), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultProfile is what a fresh config or a deleted last profile falls back to.
func DefaultProfile() Profile {
	return Profile{}
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: map[string]Profile{
			"default": DefaultProfile(),
		},
		ActiveProfile: "default",
		Frontend: Frontend{
			MaxMessages:  defaultMaxMessages,
			FetchTimeout: defaultFetchTimeout,
		},
	}

	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	// The file holds OAuth tokens.
	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	if c.path == "" {
		configPath, err := getConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		c.path = configPath
	}
	return saveConfig(c, c.path)
}

func (c *Config) applyDefaults() {
	if c.Frontend.MaxMessages <= 0 {
		c.Frontend.MaxMessages = defaultMaxMessages
	}
	if c.Frontend.FetchTimeout <= 0 {
		c.Frontend.FetchTimeout = defaultFetchTimeout
	}
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// If active profile doesn't exist, try to use the first available profile
		for name, p := range c.Profiles {
			c.ActiveProfile = name
			profile = p
			exists = true
			break
		}
	}

	if !exists {
		return fmt.Errorf("no valid profiles found")
	}

	profile.Channel = strings.TrimPrefix(strings.ToLower(profile.Channel), "#")
	c.currentProfile = &profile
	return nil
}

func emptyAsDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// MaskSecret hides all but the edges of a token.
func MaskSecret(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "(empty)"
	}
	if len(v) <= 6 {
		return "***"
	}
	return v[:2] + "***" + v[len(v)-2:]
}
