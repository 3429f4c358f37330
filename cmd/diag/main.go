package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/star/satvis/internal/config"
	"github.com/star/satvis/internal/ephemeris"
	"github.com/star/satvis/internal/transform"
	"github.com/star/satvis/internal/visibility"
)

func main() {
	input := flag.String("input", config.DefaultInput, "ephemeris table")
	lat := flag.Float64("lat", config.DefaultLatitudeDeg, "station latitude in degrees")
	lon := flag.Float64("lon", config.DefaultLongitudeDeg, "station longitude in degrees")
	elev := flag.Float64("elev", 0, "station elevation in metres")
	limit := flag.Int("n", 20, "rows to print (0 for all)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	tbl, err := ephemeris.Load(*input, logger)
	if err != nil {
		fmt.Println("ERROR loading table:", err)
		os.Exit(1)
	}
	obs, err := ephemeris.NormalizeTimes(tbl.Samples)
	if err != nil {
		fmt.Println("ERROR normalizing times:", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d rows, %d with valid times\n", len(tbl.Samples), len(obs))

	station := transform.Station{LatitudeDeg: *lat, LongitudeDeg: *lon, ElevationM: *elev}
	apparent, err := transform.NewConverter(station, transform.ModelApparent)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(1)
	}
	gmst, err := transform.NewConverter(station, transform.ModelGMST)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(1)
	}

	points := make([]transform.InertialPoint, len(obs))
	for i, o := range obs {
		points[i] = transform.InertialPoint{At: o.At, RADeg: o.RADeg, DecDeg: o.DecDeg, DistanceKm: o.DistanceKm}
	}

	hzA, err := apparent.Convert(points)
	if err != nil {
		fmt.Println("ERROR converting (apparent):", err)
		os.Exit(1)
	}
	hzG, err := gmst.Convert(points)
	if err != nil {
		fmt.Println("ERROR converting (gmst):", err)
		os.Exit(1)
	}

	n := len(obs)
	if *limit > 0 && *limit < n {
		n = *limit
	}
	var maxDiff float64
	for i := range obs {
		d := math.Abs(hzA[i].AltitudeDeg - hzG[i].AltitudeDeg)
		maxDiff = math.Max(maxDiff, d)
		if i >= n {
			continue
		}
		sub := transform.ECEFToGeodetic(apparent.EarthFixed(points[i]))
		fmt.Printf("  %s alt=%7.3f° az=%7.3f° range=%8.1fkm | gmst alt=%7.3f° az=%7.3f° | Δalt=%.4f° | sub=(%.3f°, %.3f°, %.1fkm)\n",
			obs[i].Time, hzA[i].AltitudeDeg, hzA[i].AzimuthDeg, hzA[i].RangeKm,
			hzG[i].AltitudeDeg, hzG[i].AzimuthDeg, d,
			sub.LatDeg, sub.LonDeg, sub.AltM/1000)
	}
	fmt.Printf("\nMax altitude difference between models: %.4f°\n", maxDiff)

	times := ephemeris.CleanTimes(obs)
	at := make([]time.Time, len(obs))
	alts := make([]float64, len(obs))
	azs := make([]float64, len(obs))
	for i, o := range obs {
		at[i] = o.At
		alts[i] = hzA[i].AltitudeDeg
		azs[i] = hzA[i].AzimuthDeg
	}
	pts, err := visibility.Points(times, at, alts, azs)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(1)
	}
	passes := visibility.Passes(pts, visibility.DefaultWindow(), 0)
	fmt.Printf("Passes in default window: %d\n", len(passes))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(passes); err != nil {
		fmt.Println("ERROR encoding passes:", err)
		os.Exit(1)
	}
}
