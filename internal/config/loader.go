package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathEnv names a configuration file that takes precedence over the search
// path.
const PathEnv = "HYDRASHOT_CONFIG"

// Loader finds and reads the configuration file.
type Loader struct {
	Version      string // "dev" also searches the working directory
	OverridePath string // set at link time
}

func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load parses the first existing candidate, or returns defaults when there
// is none.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Candidates lists the places searched for a configuration file, in order.
func (l *Loader) Candidates() []string {
	var out []string
	if p := os.Getenv(PathEnv); p != "" {
		out = append(out, p)
	}
	if l.OverridePath != "" {
		out = append(out, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			out = append(out, filepath.Join(wd, ".hydrashotrc"))
		}
	}
	if dir := configDir(); dir != "" {
		out = append(out, filepath.Join(dir, "config.rc"), filepath.Join(dir, "hydrashot.rc"))
	}
	return out
}

// GetConfigPath returns the first candidate that exists, or "".
func (l *Loader) GetConfigPath() string {
	for _, p := range l.Candidates() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultPath is where a new configuration file is written.
func DefaultPath() (string, error) {
	dir := configDir()
	if dir == "" {
		return "", fmt.Errorf("no user config directory")
	}
	return filepath.Join(dir, "config.rc"), nil
}

func configDir() string {
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, "hydrashot")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hydrashot")
}
