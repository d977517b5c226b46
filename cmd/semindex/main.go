package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Provider credentials may live in a local .env
	_ = godotenv.Load()
	Execute()
}
