package initializers

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file when one exists. Deployed environments inject
// variables directly, so a missing file is not an error.
func LoadEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Println("Failed to load .env file:", err)
	}
}
