// Command grid-inspect examines calibration snapshots in a calibration
// store: it prints displacement statistics for a device's grid and can
// render the grid as an HTML heatmap. With -synthetic it seeds the store
// with a generated barrel-distortion grid, which is useful for exercising
// the store and monitor without device hardware.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/veridian-devices/opticam/internal/config"
	"github.com/veridian-devices/opticam/internal/opticam"
	"github.com/veridian-devices/opticam/internal/opticam/calibstore"
	"github.com/veridian-devices/opticam/internal/opticam/monitor"
	"github.com/veridian-devices/opticam/internal/version"
)

func main() {
	var (
		dbPath      = flag.String("db", "calibration.db", "path to the calibration store")
		device      = flag.String("device", "", "device serial (required)")
		key         = flag.String("key", "", "calibration key (defaults to the device's only key)")
		out         = flag.String("out", "", "write an HTML heatmap to this path")
		synthetic   = flag.Bool("synthetic", false, "seed the store with a synthetic grid for -device/-key")
		strength    = flag.Float64("strength", 0.2, "synthetic distortion strength")
		configPath  = flag.String("config", "", "JSON tuning config; an explicit -db overrides its store path")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("grid-inspect", version.String())
		return
	}

	if *configPath != "" {
		cfg, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("grid-inspect: %v", err)
		}
		explicit := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		if !explicit["db"] {
			*dbPath = cfg.GetCalibrationDBPath()
		}
		if cfg.GetDebugLogging() {
			opticam.SetDebugLogger(os.Stderr)
		}
	}

	if *device == "" {
		log.Fatal("grid-inspect: -device is required")
	}

	store, err := calibstore.Open(*dbPath)
	if err != nil {
		log.Fatalf("grid-inspect: %v", err)
	}
	defer store.Close()

	if *synthetic {
		if *key == "" {
			*key = *device + "/synthetic"
		}
		m := opticam.SyntheticCalibration(opticam.CalibrationKey(*key), float32(*strength))
		if err := store.Save(*device, m); err != nil {
			log.Fatalf("grid-inspect: seed synthetic grid: %v", err)
		}
		log.Printf("seeded synthetic grid device=%s key=%s strength=%.2f", *device, *key, *strength)
	}

	if *key == "" {
		keys, err := store.Keys(*device)
		if err != nil {
			log.Fatalf("grid-inspect: %v", err)
		}
		if len(keys) != 1 {
			log.Fatalf("grid-inspect: device %s has %d keys, pass -key", *device, len(keys))
		}
		*key = string(keys[0])
	}

	m, err := store.Load(*device, opticam.CalibrationKey(*key))
	if err != nil {
		log.Fatalf("grid-inspect: %v", err)
	}

	st := opticam.ComputeGridStats(m)
	fmt.Printf("device:    %s\n", *device)
	fmt.Printf("key:       %s\n", st.Key)
	fmt.Printf("coverage:  %.1f%%\n", st.CoverageRatio*100)
	fmt.Printf("mean disp: (%.5f, %.5f)\n", st.MeanDispX, st.MeanDispY)
	fmt.Printf("std disp:  (%.5f, %.5f)\n", st.StdDispX, st.StdDispY)
	fmt.Printf("max disp:  %.5f\n", st.MaxDisp)

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("grid-inspect: %v", err)
		}
		defer f.Close()
		if err := monitor.RenderGridHeatmap(m, f); err != nil {
			log.Fatalf("grid-inspect: render heatmap: %v", err)
		}
		log.Printf("wrote heatmap to %s", *out)
	}
}
