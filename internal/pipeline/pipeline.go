// Package pipeline runs the visibility check end to end:
// load, normalize, convert, filter, write. Any stage failure aborts the run
// before the next stage starts, and no output file is produced.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/star/satvis/internal/config"
	"github.com/star/satvis/internal/ephemeris"
	"github.com/star/satvis/internal/fault"
	"github.com/star/satvis/internal/metrics"
	"github.com/star/satvis/internal/results"
	"github.com/star/satvis/internal/transform"
	"github.com/star/satvis/internal/visibility"
)

// Result summarises a successful run.
type Result struct {
	Output     string
	Loaded     int
	Dropped    int
	Visible    int
	Times      []string
	Passes     []visibility.Pass
	Horizontal []transform.Horizontal
}

// Run executes the pipeline for cfg.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) (res *Result, err error) {
	logger = logger.With("component", "pipeline")
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = fault.KindOf(err).String()
		}
		metrics.RecordRun(outcome, time.Now())
	}()

	if err := cfg.Validate(); err != nil {
		return nil, fault.Wrap(fault.InvalidInput, "validating config", err)
	}

	// Load.
	start := time.Now()
	tbl, err := ephemeris.Load(cfg.Input, logger)
	if err != nil {
		return nil, err
	}
	stageDone(logger, "load", start, "rows", len(tbl.Samples), "input", cfg.Input)
	metrics.RecordLoaded(len(tbl.Samples))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Normalize.
	start = time.Now()
	obs, err := ephemeris.NormalizeTimes(tbl.Samples)
	if err != nil {
		return nil, err
	}
	dropped := len(tbl.Samples) - len(obs)
	metrics.RecordDropped("missing_time", dropped)
	stageDone(logger, "normalize", start, "rows", len(obs), "dropped", dropped)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Convert.
	start = time.Now()
	conv, err := transform.NewConverter(cfg.GroundStation(), cfg.Model())
	if err != nil {
		return nil, err
	}
	hz, err := conv.Convert(inertialPoints(obs))
	if err != nil {
		return nil, err
	}
	stageDone(logger, "convert", start, "rows", len(hz), "frame_model", string(conv.Model()))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Filter.
	start = time.Now()
	times := ephemeris.CleanTimes(obs)
	visible, err := visibility.Filter(times, altitudes(hz), cfg.Window())
	if err != nil {
		return nil, err
	}
	pts, err := visibility.Points(times, instants(obs), altitudes(hz), azimuths(hz))
	if err != nil {
		return nil, err
	}
	passes := visibility.Passes(pts, cfg.Window(), time.Duration(cfg.PassGapSeconds)*time.Second)
	metrics.SetVisible(len(visible))
	metrics.SetPasses(len(passes))
	stageDone(logger, "filter", start,
		"visible", len(visible),
		"passes", len(passes),
		"min_altitude", cfg.MinAltitudeDeg,
		"max_altitude", cfg.MaxAltitudeDeg,
	)
	for i, p := range passes {
		logger.Debug("pass",
			"index", i,
			"start", p.StartTime,
			"end", p.EndTime,
			"duration_s", p.Duration().Seconds(),
			"samples", p.Samples,
			"max_altitude", p.MaxAltitudeDeg,
			"azimuth_at_max", p.AzimuthAtMax,
		)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Write.
	start = time.Now()
	if err := results.WriteTimes(cfg.Output, visible, cfg.WriteHeader); err != nil {
		return nil, err
	}
	if cfg.DetailFile != "" {
		if err := results.WriteDetail(cfg.DetailFile, detailRows(obs, hz, cfg.Window())); err != nil {
			// A run leaves both files or neither.
			if rmErr := os.Remove(cfg.Output); rmErr != nil {
				logger.Warn("failed to remove output after detail write failed", "output", cfg.Output, "error", rmErr)
			}
			return nil, err
		}
	}
	stageDone(logger, "write", start, "output", cfg.Output, "detail_file", cfg.DetailFile)

	return &Result{
		Output:     cfg.Output,
		Loaded:     len(tbl.Samples),
		Dropped:    dropped,
		Visible:    len(visible),
		Times:      visible,
		Passes:     passes,
		Horizontal: hz,
	}, nil
}

func stageDone(logger *slog.Logger, stage string, start time.Time, attrs ...any) {
	d := time.Since(start)
	metrics.ObserveStage(stage, d)
	logger.Info("stage complete", append([]any{"stage", stage, "duration_ms", d.Milliseconds()}, attrs...)...)
}

func inertialPoints(obs []ephemeris.Observation) []transform.InertialPoint {
	pts := make([]transform.InertialPoint, len(obs))
	for i, o := range obs {
		pts[i] = transform.InertialPoint{
			At:         o.At,
			RADeg:      o.RADeg,
			DecDeg:     o.DecDeg,
			DistanceKm: o.DistanceKm,
		}
	}
	return pts
}

func altitudes(hz []transform.Horizontal) []float64 {
	alts := make([]float64, len(hz))
	for i, h := range hz {
		alts[i] = h.AltitudeDeg
	}
	return alts
}

func azimuths(hz []transform.Horizontal) []float64 {
	azs := make([]float64, len(hz))
	for i, h := range hz {
		azs[i] = h.AzimuthDeg
	}
	return azs
}

func instants(obs []ephemeris.Observation) []time.Time {
	at := make([]time.Time, len(obs))
	for i, o := range obs {
		at[i] = o.At
	}
	return at
}

func detailRows(obs []ephemeris.Observation, hz []transform.Horizontal, w visibility.Window) []results.DetailRow {
	rows := make([]results.DetailRow, len(obs))
	for i, o := range obs {
		rows[i] = results.DetailRow{
			Time:        o.Time,
			AltitudeDeg: hz[i].AltitudeDeg,
			AzimuthDeg:  hz[i].AzimuthDeg,
			RangeKm:     hz[i].RangeKm,
			Visible:     w.Contains(hz[i].AltitudeDeg),
		}
	}
	return rows
}
