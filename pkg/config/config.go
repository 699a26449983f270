package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by every variable.
const EnvPrefix = "GEOLEX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Storefront    StorefrontConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GEOLEX_APP_ENV" required:"true"`
	Port         string `envconfig:"GEOLEX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GEOLEX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GEOLEX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GEOLEX_DB_DSN"`
	Driver string `envconfig:"GEOLEX_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"GEOLEX_DB_HOST"`
	Port     int    `envconfig:"GEOLEX_DB_PORT" default:"5432"`
	User     string `envconfig:"GEOLEX_DB_USER"`
	Password string `envconfig:"GEOLEX_DB_PASSWORD"`
	Name     string `envconfig:"GEOLEX_DB_NAME"`
	SSLMode  string `envconfig:"GEOLEX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GEOLEX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GEOLEX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GEOLEX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GEOLEX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GEOLEX_REDIS_URL"`
	Address      string        `envconfig:"GEOLEX_REDIS_ADDRESS"`
	Password     string        `envconfig:"GEOLEX_REDIS_PASSWORD"`
	DB           int           `envconfig:"GEOLEX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GEOLEX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GEOLEX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GEOLEX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GEOLEX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GEOLEX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"GEOLEX_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"GEOLEX_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"GEOLEX_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"GEOLEX_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int           `envconfig:"GEOLEX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int           `envconfig:"GEOLEX_ARGON_TIME" default:"3"`
	ArgonParallelism int           `envconfig:"GEOLEX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int           `envconfig:"GEOLEX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int           `envconfig:"GEOLEX_ARGON_KEY_LEN" default:"32"`
	ResetTokenTTL    time.Duration `envconfig:"GEOLEX_PASSWORD_RESET_TTL" default:"1h"`
}

type StorefrontConfig struct {
	PlaceholderImage  string `envconfig:"GEOLEX_PLACEHOLDER_IMAGE" default:"/placeholder.svg?height=400&width=400"`
	DefaultPageSize   int    `envconfig:"GEOLEX_CATALOG_PAGE_SIZE" default:"12"`
	PaymentMethod     string `envconfig:"GEOLEX_DEFAULT_PAYMENT_METHOD" default:"Cash on Delivery"`
	SnapshotNamespace string `envconfig:"GEOLEX_SNAPSHOT_NAMESPACE" default:"storefront"`
}

type AuthRateLimitConfig struct {
	SigninWindow     time.Duration `envconfig:"GEOLEX_AUTH_RATE_LIMIT_SIGNIN_WINDOW" default:"1m"`
	SigninEmailLimit int           `envconfig:"GEOLEX_AUTH_RATE_LIMIT_SIGNIN_EMAIL_LIMIT" default:"5"`
	SigninIPLimit    int           `envconfig:"GEOLEX_AUTH_RATE_LIMIT_SIGNIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"GEOLEX_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"GEOLEX_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"GEOLEX_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
	ResetWindow      time.Duration `envconfig:"GEOLEX_AUTH_RATE_LIMIT_RESET_WINDOW" default:"15m"`
	ResetEmailLimit  int           `envconfig:"GEOLEX_AUTH_RATE_LIMIT_RESET_EMAIL_LIMIT" default:"3"`
	ResetIPLimit     int           `envconfig:"GEOLEX_AUTH_RATE_LIMIT_RESET_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GEOLEX_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for _, check := range []struct {
		env   string
		value string
	}{
		{"GEOLEX_DB_HOST", db.Host},
		{"GEOLEX_DB_USER", db.User},
		{"GEOLEX_DB_NAME", db.Name},
	} {
		if check.value == "" {
			missing = append(missing, check.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either GEOLEX_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
