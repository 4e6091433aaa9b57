package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	JWTSecret     string
	CardCipherKey string
	SwaggerHost   string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/cardvault?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret: getEnv("JWT_SECRET", "change-me"),
		// 32 bytes, hex-encoded. No default: the process must not come up
		// encrypting card numbers with a key that ships in the binary.
		CardCipherKey: os.Getenv("CARD_CIPHER_KEY"),
		SwaggerHost:   os.Getenv("SWAGGER_HOST"),
	}
}

// CipherKey decodes the configured card cipher key into raw bytes.
func (c *Config) CipherKey() ([]byte, error) {
	if c.CardCipherKey == "" {
		return nil, fmt.Errorf("CARD_CIPHER_KEY is not set")
	}
	key, err := hex.DecodeString(c.CardCipherKey)
	if err != nil {
		return nil, fmt.Errorf("decode CARD_CIPHER_KEY: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("CARD_CIPHER_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
