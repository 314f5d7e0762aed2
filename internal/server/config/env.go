package config

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/dmitrijs2005/nutrigate/internal/timex"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const envPrefix = "NUTRIGATE_"

// EnvConfig is the DTO filled from NUTRIGATE_* variables. Unset variables
// leave the corresponding Config field alone.
type EnvConfig struct {
	EndpointAddrGRPC             string         `env:"GRPC_ADDR"`
	OpsAddr                      string         `env:"OPS_ADDR"`
	DatabaseDSN                  string         `env:"DATABASE_DSN"`
	SecretKey                    string         `env:"SECRET_KEY"`
	AccessTokenValidityDuration  timex.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenValidityDuration timex.Duration `env:"REFRESH_TOKEN_TTL"`
	S3RootUser                   string         `env:"S3_ROOT_USER"`
	S3RootPassword               string         `env:"S3_ROOT_PASSWORD"`
	S3Bucket                     string         `env:"S3_BUCKET"`
	S3Region                     string         `env:"S3_REGION"`
	S3BaseEndpoint               string         `env:"S3_BASE_ENDPOINT"`
	PresignExpiry                timex.Duration `env:"PRESIGN_EXPIRY"`
	RedisAddr                    string         `env:"REDIS_ADDR"`
	RedisDB                      int            `env:"REDIS_DB"`
	ResetCodeTTL                 timex.Duration `env:"RESET_CODE_TTL"`
	SESRegion                    string         `env:"SES_REGION"`
	MailSender                   string         `env:"MAIL_SENDER"`
	LogLevel                     string         `env:"LOG_LEVEL"`
}

// loadDotEnv adds the variables of path to the environment. A missing file
// is fine; a malformed one panics like the other loaders.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

// parseEnv overlays cfg with the NUTRIGATE_* variables found by l.
// Malformed values panic.
func parseEnv(ctx context.Context, cfg *Config, l envconfig.Lookuper) {
	var ec EnvConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &ec,
		Lookuper: envconfig.PrefixLookuper(envPrefix, l),
	}); err != nil {
		panic(err)
	}

	setString(&cfg.EndpointAddrGRPC, ec.EndpointAddrGRPC)
	setString(&cfg.OpsAddr, ec.OpsAddr)
	setString(&cfg.DatabaseDSN, ec.DatabaseDSN)
	setString(&cfg.SecretKey, ec.SecretKey)
	setDuration(&cfg.AccessTokenValidityDuration, ec.AccessTokenValidityDuration)
	setDuration(&cfg.RefreshTokenValidityDuration, ec.RefreshTokenValidityDuration)
	setString(&cfg.S3RootUser, ec.S3RootUser)
	setString(&cfg.S3RootPassword, ec.S3RootPassword)
	setString(&cfg.S3Bucket, ec.S3Bucket)
	setString(&cfg.S3Region, ec.S3Region)
	setString(&cfg.S3BaseEndpoint, ec.S3BaseEndpoint)
	setDuration(&cfg.PresignExpiry, ec.PresignExpiry)
	setString(&cfg.RedisAddr, ec.RedisAddr)
	if ec.RedisDB != 0 {
		cfg.RedisDB = ec.RedisDB
	}
	setDuration(&cfg.ResetCodeTTL, ec.ResetCodeTTL)
	setString(&cfg.SESRegion, ec.SESRegion)
	setString(&cfg.MailSender, ec.MailSender)
	setString(&cfg.LogLevel, ec.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration > 0 {
		*dst = v.Duration
	}
}
