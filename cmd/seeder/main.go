package main

import (
	"log/slog"

	"github.com/joho/godotenv"

	"userseed/internal/cli"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err == nil {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cli.Execute()
}
