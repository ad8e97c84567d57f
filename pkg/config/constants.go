package config

const (
	EnvPrefix = "meridian"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "MERIDIAN_APP_ENV"
	EnvPort   = "MERIDIAN_APP_PORT"

	EnvDBDSN  = "MERIDIAN_DB_DSN"
	EnvDBHost = "MERIDIAN_DB_HOST"
	EnvDBUser = "MERIDIAN_DB_USER"
	EnvDBName = "MERIDIAN_DB_NAME"

	EnvRedisURL = "MERIDIAN_REDIS_URL"

	EnvVisitorTokenSecret = "MERIDIAN_VISITOR_TOKEN_SECRET"
	EnvVisitorTokenIssuer = "MERIDIAN_VISITOR_TOKEN_ISSUER"

	EnvContentBaseURL   = "MERIDIAN_CONTENT_BASE_URL"
	EnvCheckoutFallback = "MERIDIAN_CHECKOUT_FALLBACK_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
