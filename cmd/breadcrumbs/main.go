// Command breadcrumbs scans Ruby sources for deprecated ActiveRecord idioms.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

// main loads .env (if any) and runs the root command.
func main() {
	_ = godotenv.Load()
	os.Exit(execute(os.Args[1:], streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}))
}
