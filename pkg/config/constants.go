package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix mostly matters for error messages.
const EnvPrefix = "GREENBASKET"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "GREENBASKET_APP_ENV"
	EnvPort       = "GREENBASKET_APP_PORT"
	EnvDBDSN      = "GREENBASKET_DB_DSN"
	EnvDBHost     = "GREENBASKET_DB_HOST"
	EnvDBUser     = "GREENBASKET_DB_USER"
	EnvDBName     = "GREENBASKET_DB_NAME"
	EnvRedisURL   = "GREENBASKET_REDIS_URL"
	EnvJWTSecret  = "GREENBASKET_JWT_SECRET"
	EnvJWTIssuer  = "GREENBASKET_JWT_ISSUER"
	EnvJWTExpMins = "GREENBASKET_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
