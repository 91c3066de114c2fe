package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/assetdocs/accessd/internal/access/app"
)

func main() {
	// Optional .env for local development; real deployments set env directly
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded:", err)
	}

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
