package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/askly/internal/config"
	"github.com/jonathan/askly/internal/crawling"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl a website and print the discovered resources",
	Long:  "Crawls a website breadth-first from a seed URL, honoring robots.txt, and prints the discovered pages, images, and PDF documents as JSON.",
	RunE:  runCrawl,
}

var (
	crawlURL           string
	crawlMaxDepth      int
	crawlIncludeImages bool
	crawlIncludePdfs   bool
	crawlConfigPath    string
	crawlOutputPath    string
)

func init() {
	crawlCmd.Flags().StringVarP(&crawlURL, "url", "u", "", "Seed URL to crawl")
	crawlCmd.Flags().IntVar(&crawlMaxDepth, "max-depth", 0, "Maximum link depth from the seed; 0 crawls only the seed page (default: 2, max: 5)")
	crawlCmd.Flags().BoolVar(&crawlIncludeImages, "include-images", false, "Also collect images referenced by crawled pages")
	crawlCmd.Flags().BoolVar(&crawlIncludePdfs, "include-pdfs", false, "Also collect linked PDF documents")
	crawlCmd.Flags().StringVarP(&crawlConfigPath, "config", "c", "", "Path to JSON config file")
	crawlCmd.Flags().StringVarP(&crawlOutputPath, "out", "o", "", "Write results to a file instead of stdout")

	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	cfg := &config.Config{
		URL:           crawlURL,
		IncludeImages: crawlIncludeImages,
		IncludePdfs:   crawlIncludePdfs,
	}

	// Config file values fill in whatever the flags left unset
	if crawlConfigPath != "" {
		fileCfg, err := config.LoadConfig(crawlConfigPath)
		if err != nil {
			return err
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		cfg = &merged
		cfg.IncludeImages = cfg.IncludeImages || fileCfg.IncludeImages
		cfg.IncludePdfs = cfg.IncludePdfs || fileCfg.IncludePdfs
	}

	if cfg.URL == "" {
		return fmt.Errorf("seed URL required: set --url flag or 'url' in the config file")
	}
	cfg.MaxDepth = resolveMaxDepth(cmd.Flags().Changed("max-depth"), crawlMaxDepth, cfg.MaxDepth)

	outcome, err := crawling.NewCrawler().Crawl(context.Background(), crawling.CrawlRequest{
		URL:      cfg.URL,
		MaxDepth: cfg.MaxDepth,
		Options:  cfg.CrawlOptions(),
	})
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	output, err := json.MarshalIndent(map[string]any{
		"pages_visited":   outcome.PagesVisited,
		"resources_found": len(outcome.Resources),
		"resources":       outcome.Resources,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if crawlOutputPath != "" {
		if err := os.WriteFile(crawlOutputPath, output, 0644); err != nil {
			return fmt.Errorf("failed to write results file %s: %w", crawlOutputPath, err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Visited %d pages, found %d resources\n", outcome.PagesVisited, len(outcome.Resources))
		_, _ = fmt.Fprintf(os.Stdout, "Results: %s\n", crawlOutputPath)
		return nil
	}

	_, _ = fmt.Fprintln(os.Stdout, string(output))
	return nil
}

// resolveMaxDepth picks the crawl depth. An explicitly set flag wins even at
// zero, so seed-only crawls are expressible; otherwise the config file value
// applies, then the default of 2. The result is clamped to [0, 5].
func resolveMaxDepth(flagSet bool, flagValue, configValue int) int {
	depth := configValue
	if flagSet {
		depth = flagValue
	} else if depth == 0 {
		depth = 2
	}
	if depth < 0 {
		depth = 0
	}
	if depth > 5 {
		depth = 5
	}
	return depth
}
