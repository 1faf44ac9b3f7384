// Package config loads runtime configuration for the GophNotes CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file given with -c, -config or --config. The file
//     is located by pre-scanning the command line with flagx, before cobra
//     parses it.
//  3. Command-line flags bound with BindFlags, which override earlier values.
//
// # File schema
//
// Intervals use timex.Duration, so values can be strings like "3s" or integer
// nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "data_dir": "/home/me/.gophnotes",
//	  "online_check_interval": "3s",
//	  "remote_timeout": "5s",
//	  "janitor_interval": "24h",
//	  "trash_retention": "168h",
//	  "log_level": "warn"
//	}
//
// The same keys are accepted in YAML.
package config
