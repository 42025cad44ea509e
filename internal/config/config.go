package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	ListenAddr string
	JWTSecret  string

	// per-user request quota for the task routes
	RateLimit       int
	RateLimitWindow time.Duration

	// coach CLI client
	APIBaseURL string
	APIToken   string
}

func Load() *Config {
	// .env is optional; deployments set the environment directly
	_ = godotenv.Load()

	port, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		port = 5432 // fallback
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}

	quota, err := strconv.Atoi(os.Getenv("RATE_LIMIT"))
	if err != nil || quota <= 0 {
		quota = 60
	}

	window := time.Minute
	if s := os.Getenv("RATE_LIMIT_WINDOW"); s != "" {
		if d, perr := time.ParseDuration(s); perr == nil && d > 0 {
			window = d
		}
	}

	base := os.Getenv("API_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}

	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     port,
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		ListenAddr: addr,
		JWTSecret:  secret,

		RateLimit:       quota,
		RateLimitWindow: window,

		APIBaseURL: base,
		APIToken:   os.Getenv("API_TOKEN"),
	}
}

func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}
