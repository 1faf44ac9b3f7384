package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
)

// DBFileName is the SQLite file created inside DataDir.
const DBFileName = "notes.db"

// Config holds runtime settings for the GophNotes CLI.
type Config struct {
	ServerEndpointAddr string
	// DataDir holds the local database and nothing else.
	DataDir string

	OnlineCheckInterval time.Duration
	RemoteTimeout       time.Duration
	JanitorInterval     time.Duration
	TrashRetention      time.Duration
	WatchDebounce       time.Duration

	LogLevel  string
	LogPretty bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DataDir = defaultDataDir()
	c.OnlineCheckInterval = 3 * time.Second
	c.RemoteTimeout = 5 * time.Second
	c.JanitorInterval = 24 * time.Hour
	c.TrashRetention = 7 * 24 * time.Hour
	c.WatchDebounce = 200 * time.Millisecond
	c.LogLevel = "warn"
	c.LogPretty = true
}

// DBPath is the location of the local database.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, DBFileName)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gophnotes"
	}
	return filepath.Join(home, ".gophnotes")
}

// LoadConfig applies defaults and then the config file named in args, if
// any. Flags are applied later by cobra through BindFlags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, flagx.ConfigFile(args)); err != nil {
		return nil, err
	}
	return cfg, nil
}
