package config

// EnvPrefix is passed to envconfig; the explicit envconfig tags below
// already carry it, so it only matters for error reporting.
const EnvPrefix = "SHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "SHOP_APP_ENV"
	EnvPort     = "SHOP_APP_PORT"
	EnvLogLevel = "SHOP_LOG_LEVEL"

	EnvDBDSN      = "SHOP_DB_DSN"
	EnvDBHost     = "SHOP_DB_HOST"
	EnvDBPort     = "SHOP_DB_PORT"
	EnvDBUser     = "SHOP_DB_USER"
	EnvDBPassword = "SHOP_DB_PASSWORD"
	EnvDBName     = "SHOP_DB_NAME"

	EnvRedisURL = "SHOP_REDIS_URL"

	EnvJWTSecret  = "SHOP_JWT_SECRET"
	EnvJWTIssuer  = "SHOP_JWT_ISSUER"
	EnvJWTExpMins = "SHOP_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
