// Command frame-sim drives the frame pool with a synthetic producer and a
// set of polling consumers. It demonstrates the generation-stamped handle
// model end to end: the producer recycles slots at the configured rate
// while consumers validate handles before reading, counting how many reads
// were served and how many went stale. Optionally serves the calibration
// debug monitor while running.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/veridian-devices/opticam/internal/config"
	"github.com/veridian-devices/opticam/internal/opticam"
	"github.com/veridian-devices/opticam/internal/opticam/monitor"
	"github.com/veridian-devices/opticam/internal/version"
)

// applyTuning fills in settings the user did not pass explicitly from the
// tuning config; flags set on the command line win. Returns whether debug
// logging should be enabled.
func applyTuning(cfg *config.TuningConfig, explicit map[string]bool, slots *int, monitorAddr *string) bool {
	if !explicit["slots"] {
		*slots = cfg.GetPoolSlots()
	}
	if !explicit["monitor"] && cfg.MonitorAddr != nil {
		*monitorAddr = cfg.GetMonitorAddr()
	}
	return cfg.GetDebugLogging()
}

func main() {
	var (
		slots       = flag.Int("slots", opticam.DefaultSlotCount, "frame pool slot count")
		frames      = flag.Int("frames", 300, "number of frames to produce")
		rate        = flag.Float64("rate", 60, "producer frame rate (fps)")
		width       = flag.Int("width", 640, "frame width")
		height      = flag.Int("height", 480, "frame height")
		consumers   = flag.Int("consumers", 4, "number of consumer goroutines")
		monitorAddr = flag.String("monitor", "", "serve the calibration debug monitor on this address (empty = off)")
		configPath  = flag.String("config", "", "JSON tuning config; explicit flags override its values")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("frame-sim", version.String())
		return
	}

	if *configPath != "" {
		cfg, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("frame-sim: %v", err)
		}
		explicit := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		if applyTuning(cfg, explicit, slots, monitorAddr) {
			opticam.SetDebugLogger(os.Stderr)
		}
	}

	connID := uuid.New()
	const calKey = opticam.CalibrationKey("frame-sim/left")
	provider := opticam.CalibrationProviderFunc(func(key opticam.CalibrationKey) (*opticam.CalibrationMatrix, error) {
		return opticam.SyntheticCalibration(key, 0.2), nil
	})
	cache := opticam.NewCalibrationCache(connID, provider)
	defer cache.Clear()

	pool := opticam.NewFramePool(*slots, cache)
	log.Printf("frame-sim: connection=%s slots=%d frames=%d rate=%.0ffps consumers=%d",
		connID, pool.SlotCount(), *frames, *rate, *consumers)

	if *monitorAddr != "" {
		// Prime the cache so the monitor has something to show.
		if _, err := cache.Get(calKey); err != nil {
			log.Fatalf("frame-sim: %v", err)
		}
		go func() {
			log.Printf("frame-sim: debug monitor on http://%s/debug/calibration/heatmap", *monitorAddr)
			if err := http.ListenAndServe(*monitorAddr, monitor.NewWebServer(cache)); err != nil {
				log.Printf("frame-sim: monitor stopped: %v", err)
			}
		}()
	}

	// Consumers poll the latest handle, validate, and read through it.
	var latest atomic.Value    // opticam.ImageHandle
	var centreRay atomic.Value // opticam.RayDirection
	var served, stale, warped int64
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < *consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				v := latest.Load()
				if v == nil {
					continue
				}
				h := v.(opticam.ImageHandle)
				if !h.IsValid() {
					atomic.AddInt64(&stale, 1)
					continue
				}
				if px := h.PixelData(); px == nil {
					// Recycled between the validity check and the copy.
					atomic.AddInt64(&stale, 1)
					continue
				}
				atomic.AddInt64(&served, 1)

				if grid := h.DistortionGrid(); grid != nil {
					m, err := cache.Get(h.CalibrationKey())
					if err == nil {
						w := float32(h.Width())
						ht := float32(h.Height())
						centreRay.Store(opticam.Rectify(opticam.PixelPoint{X: w / 2, Y: ht / 2}, m, w, ht))
						atomic.AddInt64(&warped, 1)
					}
				}
			}
		}()
	}

	interval := time.Duration(0)
	if *rate > 0 {
		interval = time.Duration(float64(time.Second) / *rate)
	}
	pixels := make([]byte, (*width)*(*height))
	start := time.Now()
	for seq := 0; seq < *frames; seq++ {
		// Stamp the payload so a torn read would be detectable.
		for i := range pixels {
			pixels[i] = byte(seq)
		}
		h := pool.Write(opticam.FrameData{
			Pixels:         pixels,
			Width:          int32(*width),
			Height:         int32(*height),
			BytesPerPixel:  1,
			Format:         opticam.FormatInfrared,
			Perspective:    opticam.PerspectiveStereoLeft,
			SequenceID:     int64(seq),
			Timestamp:      time.Since(start).Microseconds(),
			CalibrationKey: calKey,
		})
		latest.Store(h)
		if interval > 0 {
			time.Sleep(interval)
		}
	}
	close(done)
	wg.Wait()

	framesWritten, bytes, poolStale, dur := pool.Stats().GetAndReset()
	log.Printf("frame-sim: produced %d frames (%d bytes) in %v", framesWritten, bytes, dur.Round(time.Millisecond))
	ray, _ := centreRay.Load().(opticam.RayDirection)
	log.Printf("frame-sim: consumer reads served=%d stale=%d rectified=%d centre_ray=(%.4f, %.4f) (pool-detected stale reads=%d)",
		served, stale, warped, ray.X, ray.Y, poolStale)
}
