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

// fileConfig mirrors Config for JSON and YAML documents. Durations accept
// both "15m" strings and integer nanoseconds; missing keys keep the
// current value.
type fileConfig struct {
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN                  *string         `json:"database_dsn" yaml:"database_dsn"`
	DBPingAttempts               *uint           `json:"db_ping_attempts" yaml:"db_ping_attempts"`
	DBPingDelay                  *timex.Duration `json:"db_ping_delay" yaml:"db_ping_delay"`
	SecretKey                    *string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	WriteQuota                   *int            `json:"write_quota" yaml:"write_quota"`
	WriteQuotaWindow             *timex.Duration `json:"write_quota_window" yaml:"write_quota_window"`
	S3RootUser                   *string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                     *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	ExportURLExpiry              *timex.Duration `json:"export_url_expiry" yaml:"export_url_expiry"`
	LogLevel                     *string         `json:"log_level" yaml:"log_level"`
	LogPretty                    *bool           `json:"log_pretty" yaml:"log_pretty"`
}

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

	set(&cfg.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	set(&cfg.DatabaseDSN, fc.DatabaseDSN)
	set(&cfg.DBPingAttempts, fc.DBPingAttempts)
	setDuration(&cfg.DBPingDelay, fc.DBPingDelay)
	set(&cfg.SecretKey, fc.SecretKey)
	setDuration(&cfg.AccessTokenValidityDuration, fc.AccessTokenValidityDuration)
	setDuration(&cfg.RefreshTokenValidityDuration, fc.RefreshTokenValidityDuration)
	set(&cfg.WriteQuota, fc.WriteQuota)
	setDuration(&cfg.WriteQuotaWindow, fc.WriteQuotaWindow)
	set(&cfg.S3RootUser, fc.S3RootUser)
	set(&cfg.S3RootPassword, fc.S3RootPassword)
	set(&cfg.S3Bucket, fc.S3Bucket)
	set(&cfg.S3Region, fc.S3Region)
	set(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	setDuration(&cfg.ExportURLExpiry, fc.ExportURLExpiry)
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.LogPretty, fc.LogPretty)
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
