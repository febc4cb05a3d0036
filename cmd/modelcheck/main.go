package main

import (
	"github.com/joho/godotenv"

	"github.com/dbsmedya/modelcheck/cmd/modelcheck/cmd"
)

func main() {
	// Optional .env feeds the ${VAR} substitution in config paths.
	_ = godotenv.Load()

	cmd.Execute()
}
