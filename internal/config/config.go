package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreBadger   = "badger"
	StorePostgres = "postgres"

	// DefaultSessionSecret is for local development only.
	DefaultSessionSecret = "rider-dev-secret"
)

type Config struct {
	Srv       *Serviceconfig   `yaml:"service"`
	Places    *Placesconfig    `yaml:"places"`
	Messaging *Messagingconfig `yaml:"messaging"`
	Session   *Sessionconfig   `yaml:"session"`
	DB        *DBconfig        `yaml:"db"`
	RabbitMq  *RabbitMqconfig  `yaml:"rabbitmq"`
	App       *Appconfig       `yaml:"app"`
	Log       *Loggerconfig    `yaml:"log"`
}

type Serviceconfig struct {
	RiderServicePort string `yaml:"rider_service"`
}

type Placesconfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type Messagingconfig struct {
	BaseURL   string `yaml:"base_url"`
	Recipient string `yaml:"recipient"`
}

type Sessionconfig struct {
	Secret     string        `yaml:"secret"`
	TTL        time.Duration `yaml:"ttl"`
	Store      string        `yaml:"store"`
	BadgerPath string        `yaml:"badger_path"`
	// Secure marks the session cookie HTTPS-only.
	Secure bool `yaml:"secure"`
}

type DBconfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMqconfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

type Appconfig struct {
	Timezone  string `yaml:"timezone"`
	AdsClient string `yaml:"ads_client"`
	AdsSlot   string `yaml:"ads_slot"`
}

type Loggerconfig struct {
	Level string `yaml:"level"`
}

// Defaults returns the configuration used when neither a YAML file nor the
// environment provide a value.
func Defaults() *Config {
	return &Config{
		Srv: &Serviceconfig{
			RiderServicePort: "3000",
		},
		Places: &Placesconfig{
			BaseURL: "https://maps.googleapis.com/maps/api/place/autocomplete/json",
			Timeout: 5 * time.Second,
		},
		Messaging: &Messagingconfig{
			BaseURL:   "https://wa.me",
			Recipient: "919000000000",
		},
		Session: &Sessionconfig{
			Secret:     DefaultSessionSecret,
			TTL:        24 * time.Hour,
			Store:      StoreBadger,
			BadgerPath: "data/sessions",
		},
		DB: &DBconfig{
			Host:     "localhost",
			Port:     5432,
			User:     "rider_user",
			Password: "rider_pass",
			Database: "rider_db",
		},
		RabbitMq: &RabbitMqconfig{
			Enabled:  false,
			Host:     "localhost",
			Port:     5672,
			User:     "guest",
			Password: "guest",
		},
		App: &Appconfig{
			Timezone: "Asia/Kolkata",
		},
		Log: &Loggerconfig{
			Level: "INFO",
		},
	}
}

// New loads .env (if any), then the YAML file named by CONFIG_FILE (if any),
// then lets environment variables override individual keys.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("no .env file found, using process environment")
	}

	cnf := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fromFile, err := NewFromYAML(path)
		if err != nil {
			return nil, err
		}
		cnf = fromFile
	}

	applyEnv(cnf)

	for _, w := range cnf.Warnings() {
		fmt.Println(w)
	}

	if err := cnf.Validate(); err != nil {
		return nil, err
	}
	return cnf, nil
}

// NewFromYAML reads a YAML file on top of Defaults.
func NewFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cnf := Defaults()
	if err := yaml.Unmarshal(data, cnf); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return cnf, nil
}

func (c *Config) Validate() error {
	switch c.Session.Store {
	case StoreBadger, StorePostgres:
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.Places.Timeout <= 0 {
		return fmt.Errorf("places timeout must be positive")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.App.Timezone, err)
	}
	return nil
}

// Warnings lists settings that work but should not reach production.
func (c *Config) Warnings() []string {
	var out []string
	if c.Places.APIKey == "" {
		out = append(out, "PLACES_API_KEY is not set, autocomplete requests will be rejected upstream")
	}
	if c.Session.Secret == DefaultSessionSecret {
		out = append(out, "SESSION_SECRET is not set, session cookies are signed with the development secret")
	}
	if !c.Session.Secure {
		out = append(out, "SESSION_SECURE is off, the session cookie is also sent over plain HTTP")
	}
	return out
}

func applyEnv(cnf *Config) {
	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			fmt.Printf("cannot parse %s, using default %v\n", key, def)
			return def
		}
		return val
	}

	getEnvDuration := func(key string, def time.Duration) time.Duration {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := time.ParseDuration(valStr)
		if err != nil {
			fmt.Printf("cannot parse %s, using default %v\n", key, def)
			return def
		}
		return val
	}

	getEnvBool := func(key string, def bool) bool {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.ParseBool(valStr)
		if err != nil {
			fmt.Printf("cannot parse %s, using default %v\n", key, def)
			return def
		}
		return val
	}

	cnf.Srv.RiderServicePort = getEnv("RIDER_SERVICE_PORT", cnf.Srv.RiderServicePort)

	cnf.Places.BaseURL = getEnv("PLACES_BASE_URL", cnf.Places.BaseURL)
	cnf.Places.APIKey = getEnv("PLACES_API_KEY", getEnv("GOOGLE_PLACE_API_KEY", cnf.Places.APIKey))
	cnf.Places.Timeout = getEnvDuration("PLACES_TIMEOUT", cnf.Places.Timeout)

	cnf.Messaging.BaseURL = getEnv("MESSAGING_BASE_URL", cnf.Messaging.BaseURL)
	cnf.Messaging.Recipient = getEnv("MESSAGING_RECIPIENT", cnf.Messaging.Recipient)

	cnf.Session.Secret = getEnv("SESSION_SECRET", cnf.Session.Secret)
	cnf.Session.TTL = getEnvDuration("SESSION_TTL", cnf.Session.TTL)
	cnf.Session.Store = getEnv("SESSION_STORE", cnf.Session.Store)
	cnf.Session.BadgerPath = getEnv("SESSION_BADGER_PATH", cnf.Session.BadgerPath)
	cnf.Session.Secure = getEnvBool("SESSION_SECURE", cnf.Session.Secure)

	cnf.DB.Host = getEnv("DB_HOST", cnf.DB.Host)
	cnf.DB.Port = getEnvInt("DB_PORT", cnf.DB.Port)
	cnf.DB.User = getEnv("DB_USER", cnf.DB.User)
	cnf.DB.Password = getEnv("DB_PASSWORD", cnf.DB.Password)
	cnf.DB.Database = getEnv("DB_NAME", cnf.DB.Database)

	cnf.RabbitMq.Enabled = getEnvBool("RABBITMQ_ENABLED", cnf.RabbitMq.Enabled)
	cnf.RabbitMq.Host = getEnv("RABBITMQ_HOST", cnf.RabbitMq.Host)
	cnf.RabbitMq.Port = getEnvInt("RABBITMQ_PORT", cnf.RabbitMq.Port)
	cnf.RabbitMq.User = getEnv("RABBITMQ_USER", cnf.RabbitMq.User)
	cnf.RabbitMq.Password = getEnv("RABBITMQ_PASSWORD", cnf.RabbitMq.Password)
	cnf.RabbitMq.VHost = getEnv("RABBITMQ_VHOST", cnf.RabbitMq.VHost)

	cnf.App.Timezone = getEnv("APP_TIMEZONE", cnf.App.Timezone)
	cnf.App.AdsClient = getEnv("ADS_CLIENT", cnf.App.AdsClient)
	cnf.App.AdsSlot = getEnv("ADS_SLOT", cnf.App.AdsSlot)

	cnf.Log.Level = getEnv("LOG_LEVEL", cnf.Log.Level)
}
