// Command openapi-tools extracts MCP tool definitions from OpenAPI 3 documents.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

var exit = os.Exit

func main() {
	// Load .env before the configuration reads the environment.
	_ = godotenv.Load()

	if err := NewRootCmd().Execute(); err != nil {
		exit(1)
	}
}
