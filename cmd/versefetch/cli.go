package main

import "time"

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL         string        `arg:"" optional:"" help:"Page or chapter-contents URL to scrape"`
	Format      string        `short:"f" default:"json" help:"Output format: json, csv or txt"`
	Output      string        `short:"o" help:"Output file path (single page mode)"`
	Directory   string        `short:"d" default:"ramayana_chapters" help:"Output directory for --all-chapters"`
	FixEncoding bool          `help:"Repair latin-1 mojibake in extracted verses"`
	FixFile     string        `help:"Repair encoding in an existing JSON output file and exit" type:"path"`
	AllChapters bool          `help:"Discover and scrape every chapter linked from the contents page"`
	Timeout     time.Duration `short:"t" default:"15s" help:"HTTP timeout per request"`
	Debug       bool          `help:"Enable debug logging"`
}
