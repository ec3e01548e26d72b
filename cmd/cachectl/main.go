package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/crewtools/pairings-tracker/internal/cache"
	"github.com/crewtools/pairings-tracker/internal/common"
)

func main() {
	var (
		list       = flag.Bool("list", false, "list cache entries")
		evict      = flag.String("evict", "", "evict the entry for a digest")
		purgeStale = flag.Bool("purge-stale", false, "delete entries written by older parser schema versions")
		cacheDir   = flag.String("cache-dir", "", "cache directory (overrides PAIRINGS_CACHE_DIR)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if *cacheDir != "" {
		cfg.Cache.Dir = *cacheDir
	}

	store, err := cache.NewSQLiteStore(cfg.Cache.Dir, logger)
	if err != nil {
		logger.Error("failed to open cache store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close cache store", "error", err)
		}
	}()

	ctx := context.Background()

	switch {
	case *list:
		entries, err := store.Entries(ctx)
		if err != nil {
			logger.Error("failed to list entries", "error", err)
			os.Exit(1)
		}
		if len(entries) == 0 {
			fmt.Println("cache is empty")
			return
		}
		fmt.Printf("%-64s  %-7s  %-10s  %s\n", "DIGEST", "SCHEMA", "BYTES", "CREATED")
		for _, e := range entries {
			fmt.Printf("%-64s  %-7d  %-10d  %s\n", e.Digest, e.SchemaVersion, e.PayloadBytes, e.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	case *evict != "":
		if err := store.Evict(ctx, *evict); err != nil {
			logger.Error("failed to evict entry", "digest", *evict, "error", err)
			os.Exit(1)
		}
		fmt.Printf("evicted %s\n", *evict)
	case *purgeStale:
		n, err := store.PurgeStale(ctx)
		if err != nil {
			logger.Error("failed to purge stale entries", "error", err)
			os.Exit(1)
		}
		fmt.Printf("purged %d stale entries\n", n)
	default:
		flag.Usage()
		os.Exit(2)
	}
}
