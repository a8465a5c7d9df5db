package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all the configuration for the application.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer `yaml:"http_server"`
	Database   `yaml:"database"`
	Auth       `yaml:"auth"`
	SMTP       `yaml:"smtp"`
	Tracking   `yaml:"tracking"`
}

// HTTPServer holds HTTP server specific configuration.
type HTTPServer struct {
	Port         int    `yaml:"port" env:"HTTP_SERVER_PORT" env-default:"8080"`
	ReadTimeout  string `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout string `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  string `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Database holds PostgreSQL connection configuration.
type Database struct {
	Host            string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string `yaml:"user" env:"DB_USER" env-default:"portfolio"`
	Password        string `yaml:"password" env:"DB_PASSWORD" env-default:""`
	DBName          string `yaml:"name" env:"DB_NAME" env-default:"portfolio"`
	SSLMode         string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
	Timezone        string `yaml:"timezone" env:"DB_TIMEZONE" env-default:"UTC"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"20"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
	SeedData        bool   `yaml:"seed_data" env:"DB_SEED_DATA" env-default:"false"`
}

// Auth holds operator authentication configuration.
type Auth struct {
	JWTSecret      string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-default:""`
	AccessTokenTTL string `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
	Issuer         string `yaml:"issuer" env:"AUTH_ISSUER" env-default:"portfolio-backend"`
	// AdminEmail/AdminPassword bootstrap the operator account on startup
	// when it does not exist yet. Both empty skips the bootstrap.
	AdminEmail    string `yaml:"admin_email" env:"AUTH_ADMIN_EMAIL" env-default:""`
	AdminPassword string `yaml:"admin_password" env:"AUTH_ADMIN_PASSWORD" env-default:""`
}

// SMTP holds the contact-notification mailer configuration. When Host is
// empty the mailer is disabled and notification sends become no-ops.
type SMTP struct {
	Host       string `yaml:"host" env:"SMTP_HOST" env-default:""`
	Port       int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username   string `yaml:"username" env:"SMTP_USERNAME" env-default:""`
	Password   string `yaml:"password" env:"SMTP_PASSWORD" env-default:""`
	From       string `yaml:"from" env:"SMTP_FROM" env-default:""`
	AdminEmail string `yaml:"admin_email" env:"SMTP_ADMIN_EMAIL" env-default:""`
}

// Tracking holds visit-recording configuration.
type Tracking struct {
	// RetentionDays bounds how long visit rows are kept; a startup purge
	// removes older rows. 0 disables purging.
	RetentionDays int    `yaml:"retention_days" env:"TRACKING_RETENTION_DAYS" env-default:"365"`
	UARegexesPath string `yaml:"ua_regexes_path" env:"TRACKING_UA_REGEXES_PATH" env-default:"assets/regexes.yaml"`
	SessionCookie string `yaml:"session_cookie" env:"TRACKING_SESSION_COOKIE" env-default:"portfolio_session"`
}

// MustLoad loads the application configuration.
func MustLoad() *Config {
	// Try to load .env file (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config

	// Check if config file path is specified
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yml" // default path
	}

	// Try to load config file
	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
	} else {
		// If config file doesn't exist, use environment variables only
		log.Println("Config file not found, using environment variables only")
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err)
		}
	}

	return &cfg
}
