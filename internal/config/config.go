package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DBUrl          string
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	AllowedOrigins []string
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default-secret-key-change-in-production"
		log.Println("JWT_SECRET not set, using default key")
	}

	// Single authoritative session lifetime: the cookie max-age is derived
	// from the same value as the token expiry.
	tokenTTL := 7 * 24 * time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("Invalid TOKEN_TTL %q, using default", v)
		} else {
			tokenTTL = d
		}
	}

	bcryptCost := 0
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		c, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("Invalid BCRYPT_COST %q, using default", v)
		} else {
			bcryptCost = c
		}
	}

	origins := []string{"*"}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	return Config{
		Port:           port,
		DBUrl:          os.Getenv("DB_URL"),
		JWTSecret:      secret,
		TokenTTL:       tokenTTL,
		BcryptCost:     bcryptCost,
		AllowedOrigins: origins,
	}
}
