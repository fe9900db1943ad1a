// Command geobase loads a road-segment dataset and writes one synthetic
// trajectory as a GeoJSON FeatureCollection: the walked path, the sampled
// position reports and, when a density is set, assets scattered along the
// path's corridor.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/mohamedthameursassi/geobase/config"
	graphs "github.com/mohamedthameursassi/geobase/graphs_go"
	"github.com/mohamedthameursassi/geobase/logger"
	"github.com/mohamedthameursassi/geobase/metrics"
	"github.com/mohamedthameursassi/geobase/models"
	"github.com/mohamedthameursassi/geobase/services"
	"github.com/mohamedthameursassi/geobase/utils"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("geobase failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fset := flag.NewFlagSet("geobase", flag.ContinueOnError)
	envFile := fset.String("env", ".env", "Path to an optional .env file")
	dataset := fset.String("dataset", "", "Segment GeoJSON file or directory (overrides GEOBASE_DATASET)")
	hops := fset.Int("hops", 0, "Maximum segments per walk (overrides GEOBASE_MAX_HOPS)")
	meters := fset.Float64("meters", 0, "Walk until this many meters instead of a hop count")
	profile := fset.String("profile", "", "Vehicle profile: car, bus, bike or walking")
	density := fset.Float64("density", 0, "Corridor assets per square meter, 0 to skip")
	seed := fset.Uint64("seed", 0, "Random seed, 0 for a time-based seed")
	out := fset.String("out", "", "Output file, stdout when empty")
	if err := fset.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dataset":
			cfg.DatasetPath = *dataset
		case "hops":
			cfg.MaxHops = *hops
		case "meters":
			cfg.MaxMeters = *meters
		case "profile":
			cfg.Profile = *profile
		case "density":
			cfg.Density = *density
		case "seed":
			cfg.Seed = *seed
		case "out":
			cfg.OutputPath = *out
		}
	})

	log := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	mode := utils.ParseTransportMode(cfg.Profile)
	vehicle, ok := models.Profile(mode)
	if !ok && (cfg.SpeedKmh == 0 || cfg.IntervalSeconds == 0) {
		return fmt.Errorf("unknown vehicle profile %q", cfg.Profile)
	}

	var opts []graphs.IndexOption
	if cfg.KeyDecimals >= 0 {
		opts = append(opts, graphs.WithKeyFunc(graphs.RoundedKey(cfg.KeyDecimals)))
	}
	idx, err := graphs.LoadIndex(cfg.DatasetPath, log, opts...)
	if err != nil {
		return fmt.Errorf("failed to load segment index: %w", err)
	}
	log.Info("segment index ready", "segments", idx.Len(), "dataset", cfg.DatasetPath)

	m := metrics.New()
	rng := utils.NewRand(cfg.Seed)
	gen := services.NewGeneratorService(
		graphs.NewWalker(idx, rng),
		services.NewTrajectoryService(log, m),
		services.NewCorridorService(rng, log, m),
		log, m,
	)

	traj, err := gen.Generate(services.GenerateRequest{
		MaxHops:         cfg.MaxHops,
		MaxMeters:       cfg.MaxMeters,
		Profile:         vehicle,
		SpeedKmh:        cfg.SpeedKmh,
		IntervalSeconds: cfg.IntervalSeconds,
		Density:         cfg.Density,
	})
	if err != nil {
		return err
	}

	if err := writeOutput(cfg.OutputPath, stdout, traj.FeatureCollection()); err != nil {
		return err
	}

	if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
		log.Warn("could not write metrics textfile", "path", cfg.MetricsFile, "error", err)
	}
	return nil
}

func encode(w io.Writer, fc *geojson.FeatureCollection) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("failed to write GeoJSON: %w", err)
	}
	return nil
}

// writeOutput writes fc to path, or to stdout when path is empty.
func writeOutput(path string, stdout io.Writer, fc *geojson.FeatureCollection) error {
	if path == "" {
		return encode(stdout, fc)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	if err := encode(f, fc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file %s: %w", path, err)
	}
	return nil
}
