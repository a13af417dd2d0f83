package main

import (
	"context"
	"fmt"
	"io"
	stdslog "log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/slokaweb/versefetch"
	"github.com/slokaweb/versefetch/crawl"
	"github.com/slokaweb/versefetch/fs"
	"github.com/slokaweb/versefetch/goquery"
	vfhttp "github.com/slokaweb/versefetch/http"
	"github.com/slokaweb/versefetch/mojibake"
	"github.com/slokaweb/versefetch/robotstxt"
	vfslog "github.com/slokaweb/versefetch/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("versefetch"),
		kong.Description("Scrape Sanskrit verses from framed web archives"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cli.Debug)

	// Repair mode rewrites an existing output file and exits.
	if cli.FixFile != "" {
		return fs.FixFile(cli.FixFile, cli.Output, mojibake.NewRepairer(), logger)
	}

	if cli.URL == "" {
		return fmt.Errorf("url is required unless --fix-file is given")
	}

	format, err := versefetch.ParseFormat(cli.Format)
	if err != nil {
		return err
	}

	timeout := cli.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	fetcher := vfhttp.NewFetcher(vfhttp.WithTimeout(timeout))
	defer fetcher.Close()
	loggedFetcher := vfslog.NewFetcher(fetcher, logger)

	gate := vfslog.NewGate(robotstxt.NewGate(loggedFetcher, fetcher.UserAgent()), logger)

	store, err := fs.NewWriter(format, logger)
	if err != nil {
		return err
	}

	scraper := &crawl.Scraper{
		Fetcher:      loggedFetcher,
		Gate:         gate,
		Extractor:    goquery.NewExtractor(),
		Repairer:     mojibake.NewRepairer(),
		Discoverer:   goquery.NewDiscoverer(),
		Store:        store,
		Summaries:    fs.NewSummaryWriter(logger),
		Limiter:      crawl.NewDomainLimiter(1.0),
		FrameDelay:   crawl.FrameJitter(),
		ChapterDelay: crawl.ChapterJitter(),
		Logger:       logger,
	}

	if cli.AllChapters {
		summary, err := scraper.RunBatch(ctx, cli.URL, cli.Directory, format, cli.FixEncoding)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Scraped %d/%d chapters into %s\n",
			summary.Successful, summary.TotalChapters, cli.Directory)
		return nil
	}

	output := cli.Output
	if output == "" {
		output = fs.SinglePageFilename(cli.URL, format, time.Now())
	}
	if err := scraper.RunSingle(ctx, cli.URL, output, cli.FixEncoding); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Saved verses to %s\n", output)
	return nil
}

func newLogger(w io.Writer, debug bool) *stdslog.Logger {
	level := stdslog.LevelInfo
	if debug {
		level = stdslog.LevelDebug
	}
	return stdslog.New(stdslog.NewTextHandler(w, &stdslog.HandlerOptions{Level: level}))
}
