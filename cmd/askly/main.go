// Package main provides the entry point for the Askly crawl and ingestion service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "askly",
	Short: "Askly website crawler and knowledge base ingestion service",
	Long:  "Askly crawls customer websites, discovers pages, images, and PDF documents, and ingests selected resources into a per-organization support knowledge base.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
