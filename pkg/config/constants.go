package config

const (
	EnvPrefix = "UTSAVHUB"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv     = "UTSAVHUB_APP_ENV"
	EnvPort       = "UTSAVHUB_APP_PORT"
	EnvDBDSN      = "UTSAVHUB_DB_DSN"
	EnvRedisURL   = "UTSAVHUB_REDIS_URL"
	EnvJWTSecret  = "UTSAVHUB_JWT_SECRET"
	EnvJWTIssuer  = "UTSAVHUB_JWT_ISSUER"
	EnvJWTExpMins = "UTSAVHUB_JWT_EXPIRATION_MINUTES"
)
