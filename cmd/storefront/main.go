package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	commands "github.com/lewisedginton/storefront_chatbot/internal/cli"
)

var version = "dev"

func main() {
	// Variables already set in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: failed to load .env: %v\n", err)
		os.Exit(1)
	}

	if err := commands.NewApp(version).RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
