package main

import (
	"log"

	"github.com/joho/godotenv"

	corecmd "gourmetbot/core/cmd"
	"gourmetbot/core/logger"
	"gourmetbot/internal/app"
	"gourmetbot/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, relying on real environment")
	}

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			cfg, err := config.Load(path)
			if err != nil {
				return nil, err
			}
			if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
				return nil, err
			}
			return cfg, nil
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.Bootstrap(carrier.(*config.Config))
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
