package config

// EnvPrefix is passed to envconfig; individual fields carry fully-qualified
// envconfig tags so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "SALESSYNC_DB_DSN"
	EnvDBHost = "SALESSYNC_DB_HOST"
	EnvDBUser = "SALESSYNC_DB_USER"
	EnvDBName = "SALESSYNC_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
