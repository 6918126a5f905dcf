package config

import (
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	DBUser     string `env:"DB_USER,required"`
	DBPassword string `env:"DB_PASSWORD,required"`
	DBHost     string `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName     string `env:"DB_NAME,required"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`

	// Optional externals. The server runs without them: no Redis means no
	// listing cache, no bucket means image uploads are rejected, no Firebase
	// project means the API runs open (dev mode).
	RedisURL          string `env:"REDIS_URL"`
	StorageBucket     string `env:"STORAGE_BUCKET"`
	StorageCredsFile  string `env:"STORAGE_CREDENTIALS_FILE"`
	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`

	// Campus restriction: verified emails must belong to this domain.
	AllowedEmailDomain string `env:"ALLOWED_EMAIL_DOMAIN" envDefault:"vjcet.org"`

	ListingTTL          time.Duration `env:"LISTING_TTL" envDefault:"720h"`
	ExpirySweepInterval time.Duration `env:"EXPIRY_SWEEP_INTERVAL" envDefault:"1h"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
