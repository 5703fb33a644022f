package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "deck"

type Config struct {
	Volume   float64 `koanf:"volume"`    // initial volume, 0-100
	Icons    string  `koanf:"icons"`     // "nerd", "unicode", or "none"
	WatchDir string  `koanf:"watch_dir"` // drop folder, empty disables watching
	MPRIS    bool    `koanf:"mpris"`
	Notify   bool    `koanf:"notifications"`
	Covers   bool    `koanf:"covers"` // cover images on Kitty-capable terminals

	// Demo entries appended at startup. An explicit empty list disables them.
	Demo []DemoTrack `koanf:"demo"`

	// Labels given to ingested files
	Placeholder PlaceholderConfig `koanf:"placeholder"`

	Player PlayerConfig `koanf:"player"`
	Log    LogConfig    `koanf:"log"`
}

// DemoTrack is one demo playlist entry.
type DemoTrack struct {
	Title   string `koanf:"title"`
	Artist  string `koanf:"artist"`
	Source  string `koanf:"source"`  // URL or path
	Artwork string `koanf:"artwork"` // artwork locator
}

// PlaceholderConfig holds the labels shown for files without metadata.
type PlaceholderConfig struct {
	Artist  string `koanf:"artist"`
	Artwork string `koanf:"artwork"`
}

// PlayerConfig holds audio output settings.
type PlayerConfig struct {
	SampleRate   int           `koanf:"sample_rate"`   // speaker rate in Hz (default: 44100)
	Buffer       time.Duration `koanf:"buffer"`        // e.g. "100ms"
	TickInterval time.Duration `koanf:"tick_interval"` // progress refresh, e.g. "250ms"
}

// LogConfig holds the rotating log file settings.
type LogConfig struct {
	File       string `koanf:"file"`  // empty means $XDG_STATE_HOME/deck/deck.log
	Level      string `koanf:"level"` // debug, info, warn, error
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		Volume: 70,
		Icons:  "unicode",
		MPRIS:  true,
		Notify: true,
		Covers: true,
		Demo: []DemoTrack{
			{
				Title:   "Sample Song 1",
				Artist:  "Demo Artist",
				Source:  "https://www.soundjay.com/misc/sounds/bell-ringing-05.wav",
				Artwork: "https://via.placeholder.com/300x300/667eea/ffffff?text=Song+1",
			},
			{
				Title:   "Sample Song 2",
				Artist:  "Demo Artist",
				Source:  "https://www.soundjay.com/misc/sounds/bell-ringing-05.wav",
				Artwork: "https://via.placeholder.com/300x300/764ba2/ffffff?text=Song+2",
			},
		},
		Placeholder: PlaceholderConfig{
			Artist:  "Unknown Artist",
			Artwork: "https://via.placeholder.com/300x300/667eea/ffffff?text=Audio+File",
		},
		Player: PlayerConfig{
			SampleRate:   44100,
			Buffer:       100 * time.Millisecond,
			TickInterval: 250 * time.Millisecond,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads the config files in priority order and applies defaults.
// A non-empty explicit path replaces the search list and must exist.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	if explicit != "" {
		if err := k.Load(file.Provider(expandPath(explicit)), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", explicit, err)
		}
	} else {
		// Try config files in order of priority (last wins)
		for _, path := range getConfigPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
					return nil, fmt.Errorf("load %s: %w", path, err)
				}
			}
		}
	}

	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	cfg := Default()
	demo := cfg.Demo
	cfg.Demo = nil

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Slices decode over the existing value element by element, so defaults
	// are only restored when the key is absent.
	if !k.Exists("demo") {
		cfg.Demo = demo
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	def := Default()

	c.Volume = min(max(c.Volume, 0), 100)
	if c.Player.SampleRate <= 0 {
		c.Player.SampleRate = def.Player.SampleRate
	}
	if c.Player.Buffer <= 0 {
		c.Player.Buffer = def.Player.Buffer
	}
	if c.Player.TickInterval <= 0 {
		c.Player.TickInterval = def.Player.TickInterval
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}

	c.WatchDir = expandPath(c.WatchDir)
	c.Log.File = expandPath(c.Log.File)
	for i, d := range c.Demo {
		if d.Source != "" && d.Source[0] == '~' {
			c.Demo[i].Source = expandPath(d.Source)
		}
	}
}

// SetVolume overrides the configured volume, clamped to 0-100.
func (c *Config) SetVolume(level float64) {
	c.Volume = min(max(level, 0), 100)
}

// LogFile returns the log file path, defaulting to the XDG state directory.
func (c *Config) LogFile() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	path, err := xdg.StateFile(filepath.Join(appName, appName+".log"))
	if err != nil {
		return "", fmt.Errorf("resolve log path: %w", err)
	}
	return path, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/deck/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
