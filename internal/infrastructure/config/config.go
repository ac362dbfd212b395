package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application.
//
// Every key may be given with the LOCAL_ or SERVER_ prefix (picked by ENV_TYPE);
// the bare key is used as a fallback.
type Config struct {
	// Environment type
	EnvType string `ignored:"true"`

	// Database
	DBDriver        string `envconfig:"DB_DRIVER" default:"postgres"` // postgres | mysql
	DBHost          string `envconfig:"DB_HOST" default:"localhost"`
	DBUser          string `envconfig:"DB_USER" default:"postgres"`
	DBPassword      string `envconfig:"DB_PASSWORD"`
	DBName          string `envconfig:"DB_NAME" default:"kanic"`
	DBPort          string `envconfig:"DB_PORT" default:"5432"`
	DBSSLMode       string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMigrationMode string `envconfig:"DB_MIGRATION_MODE" default:"auto"` // 数据库迁移模式: "auto"(默认), "drop"(删除重建)
	DBMaxIdleConns  int    `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	DBMaxOpenConns  int    `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`

	// Server
	ServerPort       string   `envconfig:"SERVER_PORT" default:"8080"`
	CORSAllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:8000"`
	RateLimitRPS     float64  `envconfig:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst   int      `envconfig:"RATE_LIMIT_BURST" default:"20"`
	TrustedProxies   []string `envconfig:"TRUSTED_PROXIES"` // 为空时不信任 X-Forwarded-For

	// Redis (optional session store)
	RedisHost     string `envconfig:"REDIS_HOST"`
	RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// JWT Authentication
	JWTSecretKey  string        `envconfig:"JWT_SECRET_KEY" default:"kanic-secret-key-change-in-production"`
	JWTExpiration time.Duration `envconfig:"JWT_EXPIRATION" default:"600000s"`

	// Sessions
	SessionTTL          time.Duration `envconfig:"SESSION_TTL" default:"1209600s"`
	SessionCookieName   string        `envconfig:"SESSION_COOKIE_NAME" default:"sessionid"`
	SessionCookieSecure bool          `envconfig:"SESSION_COOKIE_SECURE" default:"false"`

	// MQTT account events, disabled when the broker URL is empty
	MQTTBrokerURL    string `envconfig:"MQTT_BROKER_URL"`
	MQTTClientID     string `envconfig:"MQTT_CLIENT_ID" default:"kanic_server"`
	MQTTUsername     string `envconfig:"MQTT_USERNAME"`
	MQTTPassword     string `envconfig:"MQTT_PASSWORD"`
	MQTTQoS          byte   `envconfig:"MQTT_QOS" default:"1"`
	MQTTAccountTopic string `envconfig:"MQTT_ACCOUNT_TOPIC" default:"kanic/accounts/created"`

	// Admin, seeded at startup when the password is set
	DefaultAdminEmail    string `envconfig:"DEFAULT_ADMIN_EMAIL" default:"admin@kanic.io"`
	DefaultAdminPhone    string `envconfig:"DEFAULT_ADMIN_PHONE" default:"0000000000"`
	DefaultAdminPassword string `envconfig:"DEFAULT_ADMIN_PASSWORD"`
}

// LoadConfig loads config from environment variables based on ENV_TYPE
func LoadConfig() (*Config, error) {
	envType := strings.ToUpper(lookupEnvType())
	switch envType {
	case "LOCAL", "SERVER":
	default:
		fmt.Printf("Warning: Unknown ENV_TYPE '%s', defaulting to LOCAL environment\n", envType)
		envType = "LOCAL"
	}

	fmt.Printf("Loading configuration for environment: %s\n", envType)

	var c Config
	if err := envconfig.Process(envType, &c); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.EnvType = envType

	if c.DBDriver != "postgres" && c.DBDriver != "mysql" {
		return nil, fmt.Errorf("load config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	return &c, nil
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		cfg, err := LoadConfig()
		if err != nil {
			panic(err)
		}
		config = cfg
	})
	return config
}

// GetDSN returns the database connection string for the configured driver
func (c *Config) GetDSN() string {
	if c.DBDriver == "mysql" {
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// GetRedisAddr returns the Redis address, empty when Redis is not configured
func (c *Config) GetRedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

// MQTTEnabled reports whether account events should be published
func (c *Config) MQTTEnabled() bool {
	return c.MQTTBrokerURL != ""
}

func lookupEnvType() string {
	var env struct {
		EnvType string `envconfig:"ENV_TYPE" default:"LOCAL"`
	}
	if err := envconfig.Process("", &env); err != nil {
		return "LOCAL"
	}
	return env.EnvType
}
