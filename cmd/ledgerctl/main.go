package main

import (
	"github.com/joho/godotenv"

	"github.com/SscSPs/nonprofit_ledger/internal/cli"
)

func main() {
	// A .env file is optional
	_ = godotenv.Load()

	cli.Execute()
}
