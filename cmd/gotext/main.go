// Command gotext prints source and translation text for references.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ZaguanLabs/gotext"
	"github.com/ZaguanLabs/gotext/cache"
	"github.com/ZaguanLabs/gotext/processor"
	"github.com/ZaguanLabs/gotext/provider"
	"github.com/rs/zerolog"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = gotext.LibraryVersion
	commit    = gotext.GitCommit
	buildDate = gotext.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("gotext", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	host := fs.String("host", "", "Text API host (default: SEFARIA_HOST env or "+provider.DefaultHost+")")
	lang := fs.String("lang", gotext.DefaultTranslationLanguage, "Translation language when no translation version is given")
	sourceVersion := fs.String("source-version", "", "Source version as lang|title or lang")
	translationVersion := fs.String("translation-version", "", "Translation version as lang|title or lang")
	noSource := fs.Bool("no-source", false, "Do not fetch the source text")
	noTranslation := fs.Bool("no-translation", false, "Do not fetch the translation")
	prefsFile := fs.String("prefs", "", "JSON file of book → language → preferred version title")
	plain := fs.Bool("plain", false, "Strip markup and footnotes from segments")
	jsonOutput := fs.Bool("json", false, "Output results as JSON")
	redisURL := fs.String("redis", "", "Redis URL for a shared backing store (optional)")
	redisTTL := fs.Int("redis-ttl", 0, "Redis TTL in seconds (0 = never expire)")
	warmFile := fs.String("warm", "", "Load a cache snapshot before resolving")
	dumpFile := fs.String("dump", "", "Write a cache snapshot after resolving")
	retries := fs.Int("retries", 2, "Retries for retryable fetch failures (0 to disable)")
	rpm := fs.Int("rpm", 0, "Maximum text API requests per minute (0 = unlimited)")
	timeout := fs.Duration("timeout", 30*time.Second, "Per-request timeout")
	logLevel := fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", gotext.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("at least one reference is required")
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05"}).
		Level(level).With().Timestamp().Logger()

	apiHost := *host
	if apiHost == "" {
		apiHost = os.Getenv("SEFARIA_HOST")
	}

	// Create fetcher
	var fetcher gotext.Fetcher = provider.NewSefariaClient(provider.SefariaConfig{
		Host:    apiHost,
		Timeout: *timeout,
	})

	if *rpm > 0 {
		fetcher = gotext.NewRateLimitedFetcher(fetcher, gotext.RateLimitConfig{RequestsPerMinute: *rpm})
	}

	if *retries > 0 {
		cfg := gotext.DefaultRetryConfig()
		cfg.MaxRetries = *retries
		fetcher = gotext.NewRetryableFetcher(fetcher, cfg).WithLogger(logger)
	}

	// Build cache
	versions := gotext.NewVersionCache()

	if *redisURL != "" {
		store, err := cache.NewRedisStore(cache.RedisConfig{URL: *redisURL, TTL: *redisTTL})
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer store.Close()
		versions.WithBackingStore(store.WithLogger(logger))
	}

	if *warmFile != "" {
		res, err := cache.NewImporter(versions).WithLogger(logger).ImportFromFile(*warmFile)
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		logger.Info().Int("imported", res.Imported).Int("failed", res.Failed).Msg("cache warmed")
	}

	// Build options
	opts := []gotext.ManagerOption{
		gotext.WithCache(versions),
		gotext.WithTranslationLanguage(*lang),
		gotext.WithLogger(logger),
	}

	if *prefsFile != "" {
		prefs, err := provider.LoadPreferences(*prefsFile)
		if err != nil {
			return err
		}
		opts = append(opts, gotext.WithPreferences(prefs))
	}

	manager := gotext.NewManager(fetcher, opts...)

	req := buildRequest(*sourceVersion, *translationVersion, *noSource, *noTranslation)

	results, err := manager.ResolveMany(context.Background(), fs.Args(), req)
	if err != nil {
		return err
	}

	proc := processor.NewHTMLProcessor()
	if *jsonOutput {
		err = outputJSON(stdout, results, proc, *plain)
	} else {
		err = outputText(stdout, results, proc, *plain)
	}
	if err != nil {
		return err
	}

	if *dumpFile != "" {
		meta := map[string]string{"host": apiHost, "lang": *lang}
		if err := cache.NewExporter(versions).ExportToFile(*dumpFile, meta); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
	}

	failed := 0
	for _, r := range results {
		for _, s := range r.Slots() {
			if s.Err != nil {
				failed++
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d slot(s) failed", failed)
	}
	return nil
}

func buildRequest(sourceVersion, translationVersion string, noSource, noTranslation bool) gotext.Request {
	var req gotext.Request
	if !noSource {
		spec := gotext.ParseSlotSpec(sourceVersion)
		req.Source = &spec
	}
	if !noTranslation {
		spec := gotext.ParseSlotSpec(translationVersion)
		req.Translation = &spec
	}
	return req
}

func segments(v *gotext.Version, proc *processor.HTMLProcessor, plain bool) ([]string, error) {
	if plain {
		return proc.Render(v)
	}
	return processor.Segments(v)
}

// outputText writes a human-readable rendering of the results.
func outputText(w io.Writer, results []*gotext.Result, proc *processor.HTMLProcessor, plain bool) error {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, r.Ref)

		for _, s := range r.Slots() {
			if s.Err != nil {
				fmt.Fprintf(w, "  [%s] error: %v\n", s.Slot, s.Err)
				continue
			}

			v := s.Version
			suffix := ""
			if s.Cached {
				suffix = " (cached)"
			}
			fmt.Fprintf(w, "  [%s] %s | %s%s\n", s.Slot, gotext.GetLanguageName(v.Language), v.VersionTitle, suffix)

			segs, err := segments(v, proc, plain)
			if err != nil {
				return err
			}
			for _, seg := range segs {
				fmt.Fprintf(w, "    %s\n", strings.TrimSpace(seg))
			}
		}
	}
	return nil
}

// JSONSlot represents one slot in the JSON output format.
type JSONSlot struct {
	Slot         string   `json:"slot"`
	Language     string   `json:"language,omitempty"`
	VersionTitle string   `json:"version_title,omitempty"`
	Direction    string   `json:"direction,omitempty"`
	Cached       bool     `json:"cached"`
	Segments     []string `json:"segments,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// JSONResult represents one reference in the JSON output format.
type JSONResult struct {
	Ref   string     `json:"ref"`
	Book  string     `json:"book"`
	Slots []JSONSlot `json:"slots"`
}

// outputJSON writes the results as JSON.
func outputJSON(w io.Writer, results []*gotext.Result, proc *processor.HTMLProcessor, plain bool) error {
	out := make([]JSONResult, 0, len(results))
	for _, r := range results {
		jr := JSONResult{Ref: r.Ref, Book: r.Book, Slots: []JSONSlot{}}
		for _, s := range r.Slots() {
			js := JSONSlot{Slot: string(s.Slot), Cached: s.Cached}
			if s.Err != nil {
				js.Error = s.Err.Error()
				jr.Slots = append(jr.Slots, js)
				continue
			}

			segs, err := segments(s.Version, proc, plain)
			if err != nil {
				return err
			}
			js.Language = s.Version.Language
			js.VersionTitle = s.Version.VersionTitle
			js.Direction = s.Version.Dir()
			js.Segments = segs
			jr.Slots = append(jr.Slots, js)
		}
		out = append(out, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
