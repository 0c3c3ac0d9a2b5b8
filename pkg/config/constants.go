package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names shared between Load and the test helpers.
const (
	EnvAppEnv     = "QUICKPOUR_APP_ENV"
	EnvPort       = "QUICKPOUR_APP_PORT"
	EnvDBDSN      = "QUICKPOUR_DB_DSN"
	EnvDBHost     = "QUICKPOUR_DB_HOST"
	EnvDBUser     = "QUICKPOUR_DB_USER"
	EnvDBName     = "QUICKPOUR_DB_NAME"
	EnvRedisURL   = "QUICKPOUR_REDIS_URL"
	EnvGCPProject = "QUICKPOUR_GCP_PROJECT_ID"

	EnvPubSubOrdersTopic        = "QUICKPOUR_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSubscription = "QUICKPOUR_PUBSUB_ORDERS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
