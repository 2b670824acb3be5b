package config

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/localmarket/hub/internal/models"
	"github.com/localmarket/hub/pkg/db"
)

type Config struct {
	HTTP_ADDR            string
	DB_HOST              string
	DB_PORT              string
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_PATH              string
	SMTP_HOST            string
	SMTP_PORT            string
	SMTP_FROM            string
	APPROVAL_BCC         string
	KAFKA_ADDRESS        string
	ES_URL               string
	ES_USER              string
	ES_PASSWORD          string
	SEED_PATH            string
	LOG_LEVEL            string
	PLAIN_TEXT_PASSWORDS bool
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		HTTP_ADDR:            os.Getenv("HTTP_ADDR"),
		DB_HOST:              os.Getenv("DB_HOST"),
		DB_PORT:              os.Getenv("DB_PORT"),
		DB_USER:              os.Getenv("DB_USER"),
		DB_PASSWORD:          os.Getenv("DB_PASSWORD"),
		DB_NAME:              os.Getenv("DB_NAME"),
		DB_PATH:              os.Getenv("DB_PATH"),
		SMTP_HOST:            os.Getenv("SMTP_HOST"),
		SMTP_PORT:            os.Getenv("SMTP_PORT"),
		SMTP_FROM:            os.Getenv("SMTP_FROM"),
		APPROVAL_BCC:         os.Getenv("APPROVAL_BCC"),
		KAFKA_ADDRESS:        os.Getenv("KAFKA_ADDRESS"),
		ES_URL:               os.Getenv("ES_URL"),
		ES_USER:              os.Getenv("ES_USER"),
		ES_PASSWORD:          os.Getenv("ES_PASSWORD"),
		SEED_PATH:            os.Getenv("SEED_PATH"),
		LOG_LEVEL:            os.Getenv("LOG_LEVEL"),
		PLAIN_TEXT_PASSWORDS: os.Getenv("PLAIN_TEXT_PASSWORDS") == "true",
	}

	if config.HTTP_ADDR == "" {
		config.HTTP_ADDR = ":8080"
	}
	if config.SEED_PATH == "" {
		config.SEED_PATH = "datasets/retailer_datasets.json"
	}

	return config, nil
}

// InitDB opens the configured database and creates missing tables.
// Postgres is used when DB_HOST is set, a local sqlite file otherwise.
func InitDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	var (
		gormDB *gorm.DB
		err    error
	)

	if cfg.DB_HOST != "" {
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
		)
		gormDB, err = db.Open(ctx, dsn)
	} else {
		path := cfg.DB_PATH
		if path == "" {
			path = "local_market.db"
		}
		gormDB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := gormDB.AutoMigrate(
		&models.User{},
		&models.Retailer{},
		&models.Product{},
		&models.Order{},
		&models.Notification{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return gormDB, nil
}
