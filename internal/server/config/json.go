package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/nutrigate/internal/flagx"
	"github.com/dmitrijs2005/nutrigate/internal/timex"
)

// JsonConfig is the DTO used for reading the JSON configuration file.
// Interval fields use timex.Duration, which accepts both "15m" and integer
// nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	OpsAddr                      string         `json:"ops_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	PresignExpiry                timex.Duration `json:"presign_expiry"`
	RedisAddr                    string         `json:"redis_addr"`
	RedisDB                      *int           `json:"redis_db"`
	ResetCodeTTL                 timex.Duration `json:"reset_code_ttl"`
	SESRegion                    string         `json:"ses_region"`
	MailSender                   string         `json:"mail_sender"`
	LogLevel                     string         `json:"log_level"`
}

// parseJson overlays config with the JSON file named by -c/-config or the
// CONFIG variable. Keys missing from the file keep their current value.
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.OpsAddr, c.OpsAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.PresignExpiry, c.PresignExpiry)
	setString(&config.RedisAddr, c.RedisAddr)
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	setDuration(&config.ResetCodeTTL, c.ResetCodeTTL)
	setString(&config.SESRegion, c.SESRegion)
	setString(&config.MailSender, c.MailSender)
	setString(&config.LogLevel, c.LogLevel)
}
