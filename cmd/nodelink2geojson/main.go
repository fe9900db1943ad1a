// Command nodelink2geojson converts an OSMnx node-link street graph into the
// segment GeoJSON dataset read by geobase.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	graphs "github.com/mohamedthameursassi/geobase/graphs_go"
	"github.com/mohamedthameursassi/geobase/logger"
)

func convert(inputPath, outputPath string) (int, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open JSON file %s: %w", inputPath, err)
	}
	segments, err := graphs.SegmentsFromNodeLinkJSON(data)
	if err != nil {
		return 0, fmt.Errorf("failed to convert %s: %w", inputPath, err)
	}
	// The dataset must be loadable as an index.
	if _, err := graphs.NewSegmentIndex(segments); err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory for %s: %w", outputPath, err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create GeoJSON file %s: %w", outputPath, err)
	}
	if err := json.NewEncoder(f).Encode(graphs.SegmentsFeatureCollection(segments)); err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to encode GeoJSON to %s: %w", outputPath, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close GeoJSON file %s: %w", outputPath, err)
	}
	return len(segments), nil
}

func main() {
	log := logger.Setup()
	if len(os.Args) < 2 {
		fmt.Println("Usage: nodelink2geojson <input_json_file> [output_geojson_file]")
		os.Exit(1)
	}

	inputPath := os.Args[1]
	outputPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".geojson"
	if len(os.Args) > 2 {
		outputPath = os.Args[2]
	}

	n, err := convert(inputPath, outputPath)
	if err != nil {
		log.Error("conversion failed", "error", err)
		os.Exit(1)
	}
	log.Info("converted street graph", "input", inputPath, "output", outputPath, "segments", n)
}
