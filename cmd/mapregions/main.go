// Command mapregions labels regions of a 2-D paper map with shared keywords.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/mapzones/internal/config"
	"github.com/banshee-data/mapzones/internal/db"
	"github.com/banshee-data/mapzones/internal/fsutil"
	"github.com/banshee-data/mapzones/internal/monitoring"
	"github.com/banshee-data/mapzones/internal/papers"
	"github.com/banshee-data/mapzones/internal/timeutil"
	"github.com/banshee-data/mapzones/internal/version"
	"github.com/banshee-data/mapzones/internal/zones"
)

type options struct {
	configPath string
	dbPath     string
	layoutPath string
	outPath    string
	growth     string
	store      bool
}

func main() {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "path to regions JSON config (defaults built in)")
	flag.StringVar(&opts.dbPath, "db", "map.db", "path to sqlite db holding mapskw and map_data")
	flag.StringVar(&opts.layoutPath, "layout", "", "layout JSON file; empty reads map_data from the db")
	flag.StringVar(&opts.outPath, "out", "", "output file; empty writes to stdout")
	flag.StringVar(&opts.growth, "growth", "", "override growth check (source or target)")
	flag.BoolVar(&opts.store, "store", false, "store the run in label_runs")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version.String("mapregions"))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, fsutil.OSFileSystem{}, os.Stdout); err != nil {
		log.Fatalf("mapregions: %v", err)
	}
}

func loadConfig(fsys fsutil.FileSystem, opts options) (*config.RegionConfig, error) {
	cfg := config.DefaultRegionConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadRegionConfigFS(fsys, opts.configPath); err != nil {
			return nil, err
		}
	}
	if opts.growth != "" {
		g := opts.growth
		cfg.GrowthCheck = &g
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func run(ctx context.Context, opts options, fsys fsutil.FileSystem, stdout io.Writer) error {
	cfg, err := loadConfig(fsys, opts)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	dbConn, err := db.NewDB(opts.dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer dbConn.Close()

	var entries []papers.LayoutEntry
	if opts.layoutPath != "" {
		entries, err = papers.LoadLayoutFile(fsys, opts.layoutPath)
	} else {
		entries, err = db.NewLayoutStore(dbConn.DB).All(ctx)
	}
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}
	monitoring.Logf("[mapregions] loaded layout with %d entries", len(entries))

	table, err := papers.Load(ctx, entries, db.NewKeywordStore(dbConn.DB), cfg.LoadOptions())
	if err != nil {
		return fmt.Errorf("load keywords: %w", err)
	}

	var clock timeutil.Clock = timeutil.RealClock{}
	start := clock.Now()
	res, err := zones.Determine(ctx, table, cfg.ToParams())
	if err != nil {
		return err
	}
	monitoring.Logf("[mapregions] labelled %d regions in %s", len(res.Regions), clock.Since(start))

	if err := writeRegions(fsys, opts.outPath, stdout, res.Regions); err != nil {
		return fmt.Errorf("write regions: %w", err)
	}

	if opts.store {
		params, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode params: %w", err)
		}
		r := &db.Run{
			ParamsJSON: params,
			Papers:     res.Stats.Papers,
			Cells:      res.Stats.Cells,
		}
		if err := db.NewRunStore(dbConn.DB).SaveRun(ctx, r, zones.Records(res.Regions)); err != nil {
			return fmt.Errorf("store run: %w", err)
		}
		monitoring.Logf("[mapregions] stored run %s with %d regions", r.RunID, r.Regions)
	}

	return nil
}

func writeRegions(fsys fsutil.FileSystem, path string, stdout io.Writer, regions []*zones.Region) error {
	if path == "" {
		return zones.WriteJSON(stdout, regions)
	}
	f, err := fsys.Create(path)
	if err != nil {
		return err
	}
	if err := zones.WriteJSON(f, regions); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
