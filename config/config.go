package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatasetPath     string
	Seed            uint64
	KeyDecimals     int // negative keeps exact keys
	MaxHops         int
	MaxMeters       float64
	Profile         string
	SpeedKmh        float64
	IntervalSeconds float64
	Density         float64
	OutputPath      string
	MetricsFile     string
	LogLevel        string
	LogFormat       string
}

var defaultConfig = Config{
	DatasetPath: "data/segments",
	KeyDecimals: -1,
	MaxHops:     10,
	Profile:     "car",
	LogLevel:    "info",
	LogFormat:   "text",
}

func Default() Config { return defaultConfig }

// Load reads envFile (when present) into the environment and then builds the
// configuration from GEOBASE_* variables over the defaults. A missing env file
// is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("could not load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds the configuration from a lookup function such as
// os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := defaultConfig
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *float64) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	str("GEOBASE_DATASET", &c.DatasetPath)
	if v, ok := lookup("GEOBASE_SEED"); ok && strings.TrimSpace(v) != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("GEOBASE_SEED: %w", err))
		} else {
			c.Seed = seed
		}
	}
	integer("GEOBASE_KEY_DECIMALS", &c.KeyDecimals)
	integer("GEOBASE_MAX_HOPS", &c.MaxHops)
	num("GEOBASE_MAX_METERS", &c.MaxMeters)
	str("GEOBASE_PROFILE", &c.Profile)
	num("GEOBASE_SPEED_KMH", &c.SpeedKmh)
	num("GEOBASE_INTERVAL_SECONDS", &c.IntervalSeconds)
	num("GEOBASE_DENSITY", &c.Density)
	str("GEOBASE_OUTPUT", &c.OutputPath)
	str("GEOBASE_METRICS_FILE", &c.MetricsFile)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return c, nil
}
