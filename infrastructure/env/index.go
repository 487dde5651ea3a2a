package env

import (
	"github.com/joho/godotenv"
)

// LoadEnv pulls variables from a local .env file when one exists. In deployed
// environments the variables come from the process environment instead, so a
// missing file is not an error.
func LoadEnv() {
	godotenv.Load()
}
