package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gcbaptista/site-search/api"
	"github.com/gcbaptista/site-search/config"
	"github.com/gcbaptista/site-search/internal/loader"
	"github.com/gcbaptista/site-search/internal/logger"
	"github.com/gcbaptista/site-search/internal/render"
	"github.com/gcbaptista/site-search/internal/search"
)

func main() {
	// Define command-line flags
	var (
		help        = flag.Bool("help", false, "Show help message")
		version     = flag.Bool("version", false, "Show version information")
		configPath  = flag.String("config", "", "Path to a YAML config file")
		listen      = flag.String("listen", "", "Address to run the server on (default :8080)")
		index       = flag.String("index", "", "URL or file path of the search index (default /search.json)")
		baseURL     = flag.String("base-url", "", "Site root that a relative index path is resolved against")
		query       = flag.String("query", "", "Run a single search, print the results and exit")
		interactive = flag.Bool("interactive", false, "Read queries from stdin as a live search box")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Site Search - local full-text search over a static site's JSON index\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s --index ./public/search.json --query rust      # One-shot search\n", os.Args[0])
		fmt.Printf("  %s --index ./public/search.json --interactive     # Live search in the terminal\n", os.Args[0])
		fmt.Printf("  %s --base-url https://blog.example.com            # Serve search for a deployed site\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("Site Search v1.0.0\n")
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to read .env: %v\n", err)
		os.Exit(1)
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := settings.ApplyEnv(os.LookupEnv); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *listen != "" {
		settings.Listen = *listen
	}
	if *index != "" {
		settings.SearchPath = *index
	}
	if problems := settings.Validate(); len(problems) > 0 {
		fmt.Fprintf(os.Stderr, "Invalid configuration:\n  %s\n", strings.Join(problems, "\n  "))
		os.Exit(1)
	}

	log, err := logger.New(settings.Env, settings.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	loaderOpts := []loader.Option{loader.WithLogger(log)}
	if *baseURL != "" {
		base, err := url.Parse(*baseURL)
		if err != nil {
			log.Fatal("invalid base URL", zap.String("base_url", *baseURL), zap.Error(err))
		}
		loaderOpts = append(loaderOpts, loader.WithBaseURL(base))
	}
	cache := loader.NewCache(loader.New(loaderOpts...), settings.SearchPath)

	switch {
	case *query != "":
		os.Exit(runQuery(cache, *settings, *query))
	case *interactive:
		runInteractive(cache, *settings, log, os.Stdin, os.Stdout)
		return
	}

	// Initialize Gin router
	if settings.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.LoggerMiddleware(log))

	// Setup API routes
	api.SetupRoutes(router, api.NewAPI(cache, *settings, log))

	// Start the server
	log.Info("starting server", zap.String("listen", settings.Listen), zap.String("index", settings.SearchPath))
	if err := router.Run(settings.Listen); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// runQuery performs one search and prints the results. It returns the exit code.
func runQuery(cache *loader.Cache, settings config.Settings, query string) int {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	renderer := render.NewRenderer(settings)
	searcher := search.NewService(settings.MinChars, nil)

	if !search.IsSearchable(query, searcher.MinChars()) {
		fmt.Fprintf(os.Stderr, "Query must be at least %d characters\n", searcher.MinChars())
		return 2
	}

	docs, err := cache.Get(ctx)
	if err != nil {
		fmt.Fprint(os.Stdout, formatView(renderer.Failure(err), settings.HighlightClass))
		return 1
	}

	view := renderer.Render(searcher.Search(query, docs), query)
	fmt.Fprint(os.Stdout, formatView(view, settings.HighlightClass))
	return 0
}
