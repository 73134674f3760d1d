package config

// EnvPrefix is intentionally empty: every field carries its fully
// qualified SMARTINV_ variable name in its envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SMARTINV_DB_DSN"
	EnvDBHost = "SMARTINV_DB_HOST"
	EnvDBUser = "SMARTINV_DB_USER"
	EnvDBName = "SMARTINV_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
