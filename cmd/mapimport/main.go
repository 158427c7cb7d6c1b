// Command mapimport loads a layout file and a keyword dump into the map db.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/banshee-data/mapzones/internal/db"
	"github.com/banshee-data/mapzones/internal/fsutil"
	"github.com/banshee-data/mapzones/internal/monitoring"
	"github.com/banshee-data/mapzones/internal/papers"
)

type options struct {
	dbPath       string
	layoutPath   string
	keywordsPath string
}

func main() {
	var opts options

	flag.StringVar(&opts.dbPath, "db", "map.db", "path to sqlite db")
	flag.StringVar(&opts.layoutPath, "layout", "", "layout JSON file ([[id, x, y], ...]) to import into map_data")
	flag.StringVar(&opts.keywordsPath, "keywords", "", `keyword JSON file ({"id": "kw1,kw2", ...}) to import into mapskw`)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, fsutil.OSFileSystem{}); err != nil {
		log.Fatalf("mapimport: %v", err)
	}
}

func run(ctx context.Context, opts options, fsys fsutil.FileSystem) error {
	if opts.layoutPath == "" && opts.keywordsPath == "" {
		return errors.New("nothing to import: give -layout and/or -keywords")
	}

	// Parse everything before touching the db so a bad file imports nothing.
	var entries []papers.LayoutEntry
	if opts.layoutPath != "" {
		var err error
		if entries, err = papers.LoadLayoutFile(fsys, opts.layoutPath); err != nil {
			return err
		}
	}
	var keywords map[int64]string
	if opts.keywordsPath != "" {
		var err error
		if keywords, err = loadKeywords(fsys, opts.keywordsPath); err != nil {
			return err
		}
	}

	dbConn, err := db.NewDB(opts.dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer dbConn.Close()

	if entries != nil {
		if err := db.NewLayoutStore(dbConn.DB).PutMany(ctx, entries); err != nil {
			return err
		}
		monitoring.Logf("[mapimport] imported %d layout entries", len(entries))
	}
	if keywords != nil {
		if err := db.NewKeywordStore(dbConn.DB).PutMany(ctx, keywords); err != nil {
			return err
		}
		monitoring.Logf("[mapimport] imported keywords for %d papers", len(keywords))
	}
	return nil
}

func loadKeywords(fsys fsutil.FileSystem, path string) (map[int64]string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords: %w", err)
	}
	keywords := map[int64]string{}
	if err := json.Unmarshal(data, &keywords); err != nil {
		return nil, fmt.Errorf("parse keywords %s: %w", path, err)
	}
	return keywords, nil
}
