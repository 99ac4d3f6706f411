package kv

import "time"

// Driver names accepted by the service configuration.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type RedisConfig struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"` // Format "redis://:password@host:6379/0".
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

type PostgresConfig struct {
	ConnectionURL string        `env:"PG_CONN_URL"`
	MaxOpenConns  int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	MinIdleConns  int32         `env:"PG_MIN_IDLE_CONNS" envDefault:"2"`
	RetryAttempts int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
	Table         string        `env:"PG_DOCUMENTS_TABLE" envDefault:"flaggly_documents"`
}

type MongoConfig struct {
	ConnectionURL  string        `env:"MONGO_URL"`
	Database       string        `env:"MONGO_DB" envDefault:"flaggly"`
	Collection     string        `env:"MONGO_COLLECTION" envDefault:"documents"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"30s"`
}
