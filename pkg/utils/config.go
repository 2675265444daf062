package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// loadEnv reads a .env file when one exists. godotenv never overrides
// variables that are already set, so OS env wins over the file. Every
// Load* function calls this, so importing the package has no side
// effects.
func loadEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env file: %v\n", err)
	}
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	loadEnv()

	secret := os.Getenv("STORESEARCH_JWT_SECRET")
	if secret == "" {
		// dev default (change for production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("STORESEARCH_JWT_ISSUER")
	if issuer == "" {
		issuer = "storesearch"
	}

	duration := 24 * time.Hour
	if ttl := os.Getenv("STORESEARCH_JWT_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			duration = time.Duration(hours) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: duration,
	}
}

// LookupConfig carries everything the outbound lookup clients need.
// It is read once at startup and passed down; nothing mutates it.
type LookupConfig struct {
	AppStoreLookupURL string
	PlayStoreURL      string
	Username          string // optional basic auth for the lookup endpoint
	Password          string
	Tries             int
	AttemptTimeout    time.Duration
	RetryBackoff      time.Duration
}

func LoadLookupConfig() LookupConfig {
	loadEnv()

	cfg := LookupConfig{
		AppStoreLookupURL: os.Getenv("STORESEARCH_APPSTORE_URL"),
		PlayStoreURL:      os.Getenv("STORESEARCH_PLAYSTORE_URL"),
		Username:          os.Getenv("STORESEARCH_LOOKUP_USERNAME"),
		Password:          os.Getenv("STORESEARCH_LOOKUP_PASSWORD"),
		Tries:             3,
		AttemptTimeout:    5 * time.Second,
		RetryBackoff:      time.Second,
	}

	if v := os.Getenv("STORESEARCH_LOOKUP_TRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Tries = n
		}
	}
	if v := os.Getenv("STORESEARCH_LOOKUP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AttemptTimeout = time.Duration(n) * time.Second
		}
	}

	return cfg
}

type ServerConfig struct {
	Addr string
}

func LoadServerConfig() ServerConfig {
	loadEnv()

	addr := os.Getenv("STORESEARCH_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return ServerConfig{Addr: addr}
}
