package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the client flags on fs with the current values of cfg
// as defaults, so parsing fs overrides only what the user passed.
//
// The -c/--config flag is registered for help output; the file itself is
// read earlier by LoadConfig.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringP("config", "c", "", "path to a JSON or YAML config file")
	fs.StringVarP(&cfg.ServerEndpointAddr, "address", "a", cfg.ServerEndpointAddr, "address and port of the notes server")
	fs.StringVarP(&cfg.DataDir, "data-dir", "d", cfg.DataDir, "directory of the local database")
	fs.DurationVarP(&cfg.OnlineCheckInterval, "check-interval", "i", cfg.OnlineCheckInterval, "connectivity check interval")
	fs.DurationVar(&cfg.RemoteTimeout, "remote-timeout", cfg.RemoteTimeout, "timeout of a single remote call")
	fs.DurationVar(&cfg.JanitorInterval, "janitor-interval", cfg.JanitorInterval, "how often expired trash is purged")
	fs.DurationVar(&cfg.TrashRetention, "trash-retention", cfg.TrashRetention, "how long trashed notes are kept")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.BoolVar(&cfg.LogPretty, "log-pretty", cfg.LogPretty, "human readable logs")
}
