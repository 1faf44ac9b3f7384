package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-s", "-t", "-r", "-u", "-p", "-b", "-g", "-e", "-q", "-w", "-x", "-l"}

// parseFlags applies the server flags found in args. Flags owned by other
// layers (such as -c) are filtered out first.
//
//	-a  gRPC bind address          -d  PostgreSQL DSN
//	-s  JWT secret                 -t  access token TTL
//	-r  refresh token TTL          -q  writes per quota window
//	-w  quota window               -x  export URL expiry
//	-u  S3 user                    -p  S3 password
//	-b  S3 bucket                  -g  S3 region
//	-e  S3 endpoint                -l  log level
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.EndpointAddrGRPC, "a", cfg.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "JWT secret key")
	fs.DurationVar(&cfg.AccessTokenValidityDuration, "t", cfg.AccessTokenValidityDuration, "access token validity")
	fs.DurationVar(&cfg.RefreshTokenValidityDuration, "r", cfg.RefreshTokenValidityDuration, "refresh token validity")
	fs.IntVar(&cfg.WriteQuota, "q", cfg.WriteQuota, "note writes allowed per quota window")
	fs.DurationVar(&cfg.WriteQuotaWindow, "w", cfg.WriteQuotaWindow, "quota window")
	fs.DurationVar(&cfg.ExportURLExpiry, "x", cfg.ExportURLExpiry, "export download URL expiry")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return fs.Parse(flagx.FilterArgs(args, serverFlags))
}
