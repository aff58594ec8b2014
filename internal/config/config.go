package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the API server
type Config struct {
	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// APIKey guards the API when set; empty disables auth (local dev).
	APIKey string

	// DynamoDB
	DynamoDB DynamoDBConfig

	// S3 statement archive (optional; disabled when Bucket is empty)
	Archive S3Config

	// SeedFile is an optional YAML file of owners, accounts and categories
	// applied at startup. Existing entities are skipped.
	SeedFile string
}

// DynamoDBConfig holds DynamoDB connection settings
type DynamoDBConfig struct {
	Region          string
	Table           string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for DynamoDB Local
}

// S3Config holds S3 settings for the uploaded-statement archive
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:         getEnv("ENV", "development"),
		APIKey:      getEnv("API_KEY", ""),
		DynamoDB: DynamoDBConfig{
			Region:          getEnv("DYNAMODB_REGION", "ap-southeast-2"),
			Table:           getEnv("DYNAMODB_TABLE", "expense-tracker"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("DYNAMODB_ENDPOINT", ""), // Empty = use AWS, set for DynamoDB Local
		},
		Archive: S3Config{
			Region:          getEnv("S3_REGION", "ap-southeast-2"),
			Bucket:          getEnv("S3_STATEMENT_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
		},
		SeedFile: getEnv("SEED_FILE", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DynamoDB.Table == "" {
		return fmt.Errorf("DYNAMODB_TABLE is required")
	}
	if c.DynamoDB.Region == "" {
		return fmt.Errorf("DYNAMODB_REGION is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
