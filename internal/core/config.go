package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tailscale/hujson"

	"github.com/barysiuk/blueagents/internal/core/platform"
)

const (
	configFileName = "config.json"

	// EnvPlatform overrides the configured platform.
	EnvPlatform = "BLUEAGENTS_PLATFORM"
	// EnvCatalog points at a catalog directory used instead of the bundled one.
	EnvCatalog = "BLUEAGENTS_CATALOG"
	// EnvLogLevel sets the log level (debug, info, warn, error).
	EnvLogLevel = "BLUEAGENTS_LOG_LEVEL"
)

// ErrNoPlatform is returned when no platform is configured and none, or
// more than one, is detected in the project.
var ErrNoPlatform = errors.New("no platform selected")

// configKeys maps settable keys to their JSON field names.
var configKeys = map[string]string{
	"platform":   "platform",
	"catalogDir": "catalogDir",
}

// ConfigManager handles reading and writing one blueagents config file.
type ConfigManager struct {
	configDir string
	mu        sync.RWMutex
}

// NewConfigManager creates a ConfigManager for the user config (~/.blueagents/).
func NewConfigManager() (*ConfigManager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	return &ConfigManager{
		configDir: filepath.Join(home, stateDirName),
	}, nil
}

// NewProjectConfigManager creates a ConfigManager for <projectDir>/.blueagents/.
func NewProjectConfigManager(projectDir string) *ConfigManager {
	return &ConfigManager{configDir: filepath.Join(projectDir, stateDirName)}
}

// NewConfigManagerWithDir creates a ConfigManager using a custom config directory.
// Useful for testing.
func NewConfigManagerWithDir(dir string) *ConfigManager {
	return &ConfigManager{configDir: dir}
}

// ConfigDir returns the configuration directory path.
func (cm *ConfigManager) ConfigDir() string {
	return cm.configDir
}

// ConfigPath returns the full path to the config file.
func (cm *ConfigManager) ConfigPath() string {
	return filepath.Join(cm.configDir, configFileName)
}

// Load reads the config from disk. Returns an empty config if the file
// doesn't exist. Comments and trailing commas are allowed.
func (cm *ConfigManager) Load() (*Config, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	data, err := os.ReadFile(cm.ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", cm.ConfigPath(), err)
	}
	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", cm.ConfigPath(), err)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
// Any comments in an existing file are lost; use Set to keep them.
func (cm *ConfigManager) Save(cfg *Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return cm.write(append(data, '\n'))
}

// Set updates a single key in place, preserving comments and formatting of
// the rest of the file. An empty value removes the key.
func (cm *ConfigManager) Set(key, value string) error {
	field, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ConfigKeys(), ", "))
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	content, err := os.ReadFile(cm.ConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		content = []byte("{}")
	}

	// Parse as JSONC AST so comments and whitespace survive.
	root, err := hujson.Parse(content)
	if err != nil {
		return fmt.Errorf("parsing config %s: %w", cm.ConfigPath(), err)
	}

	ptr := "/" + field
	var patch string
	switch {
	case value == "" && root.Find(ptr) == nil:
		return nil
	case value == "":
		patch = fmt.Sprintf(`[{"op":"remove","path":%q}]`, ptr)
	case root.Find(ptr) != nil:
		patch = fmt.Sprintf(`[{"op":"replace","path":%q,"value":%q}]`, ptr, value)
	default:
		patch = fmt.Sprintf(`[{"op":"add","path":%q,"value":%q}]`, ptr, value)
	}
	if err := root.Patch([]byte(patch)); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	root.Format()
	out := root.Pack()
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return cm.write(out)
}

// write stores data atomically. Callers hold cm.mu.
func (cm *ConfigManager) write(data []byte) error {
	if err := os.MkdirAll(cm.configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write atomically: write to temp file then rename
	tmpPath := cm.ConfigPath() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmpPath, cm.ConfigPath()); err != nil {
		_ = os.Remove(tmpPath) // clean up on failure
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// ConfigKeys returns the keys accepted by Set, sorted.
func ConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Settings are the merged project and user configuration.
type Settings struct {
	Project *Config `json:"project"`
	User    *Config `json:"user"`
}

// LoadSettings reads the project config and, when user is non-nil, the
// user config. Missing files yield empty configs.
func LoadSettings(projectDir string, user *ConfigManager) (*Settings, error) {
	project, err := NewProjectConfigManager(projectDir).Load()
	if err != nil {
		return nil, err
	}
	s := &Settings{Project: project, User: &Config{}}
	if user != nil {
		if s.User, err = user.Load(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// PlatformChoice is a resolved platform name and where it came from.
type PlatformChoice struct {
	Name   string
	Source string // flag, env, project config, user config, detected
}

// ResolvePlatform picks the platform for projectDir. Precedence: flag,
// BLUEAGENTS_PLATFORM, project config, user config, then the single
// platform detected in the project. The name is not validated here.
func (s *Settings) ResolvePlatform(flag, projectDir string) (PlatformChoice, error) {
	switch {
	case flag != "":
		return PlatformChoice{Name: flag, Source: "flag"}, nil
	case os.Getenv(EnvPlatform) != "":
		return PlatformChoice{Name: os.Getenv(EnvPlatform), Source: "env"}, nil
	case s.Project.Platform != "":
		return PlatformChoice{Name: s.Project.Platform, Source: "project config"}, nil
	case s.User.Platform != "":
		return PlatformChoice{Name: s.User.Platform, Source: "user config"}, nil
	}

	detected := platform.Detect(projectDir)
	if len(detected) == 1 {
		return PlatformChoice{Name: detected[0].Name, Source: "detected"}, nil
	}

	hint := fmt.Sprintf("use --platform or %s (one of: %s)", EnvPlatform, strings.Join(platform.Names(), ", "))
	if len(detected) > 1 {
		names := make([]string, len(detected))
		for i, d := range detected {
			names[i] = d.Name
		}
		return PlatformChoice{}, fmt.Errorf("%w: detected %s; %s", ErrNoPlatform, strings.Join(names, ", "), hint)
	}
	return PlatformChoice{}, fmt.Errorf("%w: %s", ErrNoPlatform, hint)
}

// ResolveCatalogDir returns the catalog directory to use instead of the
// bundled catalog, or "" for the bundled one. Precedence: flag,
// BLUEAGENTS_CATALOG, project config (relative to projectDir), user config.
func (s *Settings) ResolveCatalogDir(flag, projectDir string) string {
	switch {
	case flag != "":
		return flag
	case os.Getenv(EnvCatalog) != "":
		return os.Getenv(EnvCatalog)
	case s.Project.CatalogDir != "":
		if filepath.IsAbs(s.Project.CatalogDir) {
			return s.Project.CatalogDir
		}
		return filepath.Join(projectDir, s.Project.CatalogDir)
	}
	return expandHome(s.User.CatalogDir)
}

// expandHome expands a leading ~ to the home directory.
func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
