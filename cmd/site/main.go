package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glaido/site"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "serve":
		err = runServe(args)
	case "sitemap":
		err = runSitemap(args, os.Stdout)
	case "feed":
		err = runFeed(args, os.Stdout)
	case "check":
		err = runCheck(args, os.Stdout)
	case "covers":
		err = runCovers(args, os.Stdout)
	case "version":
		fmt.Printf("site %s\n", version)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `site - the Glaido marketing site and blog

Usage:
  site <command> [-config site.yaml] [arguments]

Commands:
  serve         Run the web server
  sitemap       Print sitemap.xml
  feed          Print the RSS feed
  check         Parse every article and report failures
  covers <dir>  Resize and re-encode cover images in dir
  version       Print the version
  help          Show this help message

Environment:
  SITE_URL, SITE_NAME, ADDR, CONTENT_DIR, STATIC_DIR, DEV, SANITIZE,
  LEAD_WEBHOOK_URL, SESSION_SECRET, COOKIE_SECURE, LEAD_RATE_LIMIT
  A .env file in the working directory is loaded first.`)
}

// loadApp parses the shared -config flag and builds the app.
func loadApp(name string, args []string) (*site.App, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", "site.yaml", "path to the site configuration")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := site.LoadConfig(*configPath)
	if err != nil {
		return nil, err
	}
	return site.New(cfg), nil
}

func runServe(args []string) error {
	app, err := loadApp("serve", args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		app.Close()
		return err
	case <-ctx.Done():
	}

	app.Echo.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}

func runSitemap(args []string, w io.Writer) error {
	app, err := loadApp("sitemap", args)
	if err != nil {
		return err
	}
	defer app.Close()
	out, err := site.GenerateSitemap(app.Config.URL, app.Articles.All())
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func runFeed(args []string, w io.Writer) error {
	app, err := loadApp("feed", args)
	if err != nil {
		return err
	}
	defer app.Close()
	out, err := site.GenerateFeed(app.Config, app.Articles.All())
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func runCheck(args []string, w io.Writer) error {
	app, err := loadApp("check", args)
	if err != nil {
		return err
	}
	defer app.Close()
	report := app.Articles.Report()
	for _, slug := range report.Loaded {
		fmt.Fprintf(w, "ok    %s\n", slug)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(w, "FAIL  %s: %v\n", f.Slug, f.Err)
	}
	fmt.Fprintf(w, "%d loaded, %d failed\n", len(report.Loaded), len(report.Failed))
	return report.Err()
}

func runCovers(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("covers", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: site covers <dir>")
	}
	covers, err := site.OptimizeCovers(fs.Arg(0))
	if err != nil {
		return err
	}
	var failed int
	for _, c := range covers {
		switch {
		case c.Err != nil:
			failed++
			fmt.Fprintf(w, "FAIL  %s: %v\n", c.Source, c.Err)
		case c.Skipped:
			fmt.Fprintf(w, "skip  %s (%dx%d)\n", c.Source, c.Width, c.Height)
		default:
			fmt.Fprintf(w, "ok    %s -> %s (%dx%d, %d bytes)\n", c.Source, c.Output, c.Width, c.Height, c.Size)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(covers))
	}
	return nil
}
