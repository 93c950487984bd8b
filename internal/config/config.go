package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the full application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Wedding  WeddingConfig  `mapstructure:"wedding"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorageConfig selects the photo storage backend.
// Backend is "local" or "s3"; PublicBaseURL is prepended to object keys
// when issuing public URLs.
type StorageConfig struct {
	Backend       string `mapstructure:"backend"`
	LocalDir      string `mapstructure:"local_dir"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	S3Endpoint    string `mapstructure:"s3_endpoint"`
	S3Region      string `mapstructure:"s3_region"`
	S3Bucket      string `mapstructure:"s3_bucket"`
	S3AccessKey   string `mapstructure:"s3_access_key"`
	S3SecretKey   string `mapstructure:"s3_secret_key"`
}

// AdminConfig tunes the admin session cache
type AdminConfig struct {
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	CheckTimeout time.Duration `mapstructure:"check_timeout"`
}

type WeddingConfig struct {
	PrimaryEventName string `mapstructure:"primary_event_name"`
}

// Load reads configuration from config.yaml and WEDDING_* environment
// variables. A .env file is loaded first if present (development convenience).
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("WEDDING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults keep the server bootable with nothing but a database
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "wedding_user")
	v.SetDefault("database.name", "wedding_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("jwt.expiration", 24*time.Hour)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local_dir", "data/photos")
	v.SetDefault("storage.public_base_url", "/photos")
	v.SetDefault("admin.cache_ttl", 5*time.Minute)
	v.SetDefault("admin.check_timeout", 8*time.Second)
	v.SetDefault("wedding.primary_event_name", "Wedding Ceremony")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Failed to read config file: %v", err)
		}
		log.Println("No config file found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Failed to unmarshal config: %v", err)
	}

	if cfg.JWT.Secret == "" {
		log.Println("WARNING: jwt.secret is empty; set WEDDING_JWT_SECRET in production")
		cfg.JWT.Secret = "dev-only-secret"
	}

	return &cfg
}
