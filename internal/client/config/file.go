package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
	"github.com/dmitrijs2005/gophnotes/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape. Absent keys leave the current value alone.
type fileConfig struct {
	ServerEndpointAddr  *string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	DataDir             *string         `json:"data_dir" yaml:"data_dir"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	RemoteTimeout       *timex.Duration `json:"remote_timeout" yaml:"remote_timeout"`
	JanitorInterval     *timex.Duration `json:"janitor_interval" yaml:"janitor_interval"`
	TrashRetention      *timex.Duration `json:"trash_retention" yaml:"trash_retention"`
	WatchDebounce       *timex.Duration `json:"watch_debounce" yaml:"watch_debounce"`
	LogLevel            *string         `json:"log_level" yaml:"log_level"`
	LogPretty           *bool           `json:"log_pretty" yaml:"log_pretty"`
}

// parseFile overlays cfg with the JSON or YAML document at path. An empty
// path is a no-op.
func parseFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if flagx.IsYAML(path) {
		err = yaml.Unmarshal(data, &fc)
	} else {
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ServerEndpointAddr, fc.ServerEndpointAddr)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.LogLevel, fc.LogLevel)
	setDuration(&cfg.OnlineCheckInterval, fc.OnlineCheckInterval)
	setDuration(&cfg.RemoteTimeout, fc.RemoteTimeout)
	setDuration(&cfg.JanitorInterval, fc.JanitorInterval)
	setDuration(&cfg.TrashRetention, fc.TrashRetention)
	setDuration(&cfg.WatchDebounce, fc.WatchDebounce)
	if fc.LogPretty != nil {
		cfg.LogPretty = *fc.LogPretty
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
