package config

import "time"

// FivePaisaConfig holds the brokerage application and user credentials.
// The TOTP code is per-run input (flag or env), never stored in the file.
type FivePaisaConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`

	AppName       string `mapstructure:"app_name"`
	AppSource     int    `mapstructure:"app_source"`
	UserID        string `mapstructure:"user_id"`
	Password      string `mapstructure:"password"`
	UserKey       string `mapstructure:"user_key"`
	EncryptionKey string `mapstructure:"encryption_key"`
	ClientCode    string `mapstructure:"client_code"`
	PIN           string `mapstructure:"pin"`

	// ScripMapFile is the symbol-to-scrip-code CSV required by the
	// 5paisa history endpoint.
	ScripMapFile string `mapstructure:"scrip_map_file"`

	TOTP string `mapstructure:"totp"`
}

// Parameter store names for secrets resolved in the prod environment.
const (
	paramFivePaisaUserKey       = "NSEFETCH_5P_USER_KEY"
	paramFivePaisaPassword      = "NSEFETCH_5P_PASSWORD"
	paramFivePaisaEncryptionKey = "NSEFETCH_5P_ENCRYPTION_KEY"
	paramPostgresPassword       = "NSEFETCH_DB_PASSWORD"
)

// resolveSecrets overwrites secret fields from the SSM parameter store when
// running in prod. Values missing from the store leave the configured ones
// in place.
func (c *Config) resolveSecrets() {
	if c.Environment != "prod" {
		return
	}
	if v := getParameterStoreValue(paramFivePaisaUserKey, true); v != "" {
		c.FivePaisa.UserKey = v
	}
	if v := getParameterStoreValue(paramFivePaisaPassword, true); v != "" {
		c.FivePaisa.Password = v
	}
	if v := getParameterStoreValue(paramFivePaisaEncryptionKey, true); v != "" {
		c.FivePaisa.EncryptionKey = v
	}
	if v := getParameterStoreValue(paramPostgresPassword, true); v != "" {
		c.Database.Postgres.Password = v
	}
}
