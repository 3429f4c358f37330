// Package results writes visibility output files.
//
// Files are written to a temporary file in the destination directory and
// renamed into place, so a failed run never leaves a truncated result.
package results

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/star/satvis/internal/fault"
)

// TimeHeader is the column label written when a header is requested.
const TimeHeader = "Time (iso)"

// DetailHeader is the header row of the per-row detail file.
var DetailHeader = []string{"Time (iso)", "Altitude [deg]", "Azimuth [deg]", "Range [km]", "Visible"}

// DetailRow is one converted sample in the detail file.
type DetailRow struct {
	Time        string
	AltitudeDeg float64
	AzimuthDeg  float64
	RangeKm     float64
	Visible     bool
}

// WriteTimes writes one timestamp per line to path, replacing any existing
// file. No index column is written; header adds a single label row.
func WriteTimes(path string, times []string, header bool) error {
	return writeAtomic(path, func(w *csv.Writer) error {
		if header {
			if err := w.Write([]string{TimeHeader}); err != nil {
				return err
			}
		}
		for _, ts := range times {
			if err := w.Write([]string{ts}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteDetail writes every converted row with its look angles and whether it
// fell inside the visibility window.
func WriteDetail(path string, rows []DetailRow) error {
	return writeAtomic(path, func(w *csv.Writer) error {
		if err := w.Write(DetailHeader); err != nil {
			return err
		}
		for _, r := range rows {
			rec := []string{
				r.Time,
				strconv.FormatFloat(r.AltitudeDeg, 'f', 6, 64),
				strconv.FormatFloat(r.AzimuthDeg, 'f', 6, 64),
				strconv.FormatFloat(r.RangeKm, 'f', 3, 64),
				strconv.FormatBool(r.Visible),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeAtomic(path string, fill func(*csv.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fault.Wrap(fault.IO, "writing results", fmt.Errorf("creating temp file: %w", err))
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	cw := csv.NewWriter(bw)
	if err := fill(cw); err != nil {
		return fault.Wrap(fault.IO, "writing results", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fault.Wrap(fault.IO, "writing results", err)
	}
	if err := bw.Flush(); err != nil {
		return fault.Wrap(fault.IO, "writing results", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fault.Wrap(fault.IO, "writing results", err)
	}
	if err := tmp.Close(); err != nil {
		return fault.Wrap(fault.IO, "writing results", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fault.Wrap(fault.IO, "writing results", fmt.Errorf("replacing %s: %w", path, err))
	}
	return nil
}
