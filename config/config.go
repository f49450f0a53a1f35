package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB       string `envconfig:"MONGO_DB" default:"vitrinedb"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	JWTSecret     string `envconfig:"JWT_SECRET" default:"change_me"`
	AdminUser     string `envconfig:"ADMIN_USER" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:""`
	BaseURL       string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	StaticDir     string `envconfig:"STATIC_DIR" default:"static"`
	InvoiceSecret string `envconfig:"INVOICE_SECRET" default:"change_me_too"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
