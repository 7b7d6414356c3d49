package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// configDirEnv overrides the configuration directory.
const configDirEnv = "EXPLORER_CONFIG_DIR"

// UserConfig is the on-disk profile store, config.yaml in ConfigDir.
type UserConfig struct {
	CurrentProfile string             `yaml:"current-profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Profile holds the connection and output defaults of one query endpoint.
type Profile struct {
	Host      string `yaml:"host,omitempty"`
	QueryPath string `yaml:"query-path,omitempty"`
	Output    string `yaml:"output,omitempty"`
}

func newUserConfig() *UserConfig {
	return &UserConfig{CurrentProfile: "default", Profiles: map[string]Profile{}}
}

// ActiveProfile picks override when set, else the current profile. Naming a
// profile that does not exist is an error; a dangling current profile just
// contributes no defaults.
func (c *UserConfig) ActiveProfile(override string) (Profile, error) {
	if override == "" {
		return c.Profiles[c.CurrentProfile], nil
	}
	if p, ok := c.Profiles[override]; ok {
		return p, nil
	}
	return Profile{}, fmt.Errorf("profile %q not found", override)
}

// ProfileNames lists the stored profiles in name order.
func (c *UserConfig) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *UserConfig) validate() error {
	for _, name := range c.ProfileNames() {
		if err := validateOutputFormat(c.Profiles[name].Output); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
	}
	return nil
}

// ConfigDir is $EXPLORER_CONFIG_DIR, else ~/.explorer. It also holds the
// shell history.
func ConfigDir() string {
	if dir := os.Getenv(configDirEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".explorer"
	}
	return filepath.Join(home, ".explorer")
}

// ConfigPath is the profile store inside ConfigDir.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LoadUserConfig reads and validates the profile store.
func LoadUserConfig() (*UserConfig, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := newUserConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigPath(), err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigPath(), err)
	}
	return cfg, nil
}

// SaveUserConfig writes the profile store, readable by the owner only.
func SaveUserConfig(cfg *UserConfig) error {
	if err := os.MkdirAll(ConfigDir(), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(), data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
