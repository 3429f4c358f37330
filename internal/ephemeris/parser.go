// Package ephemeris loads satellite ephemeris tables and cleans their
// timestamp column.
package ephemeris

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/star/satvis/internal/fault"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// missingTokens are cell values treated as absent, matched before trimming.
var missingTokens = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(cell string) bool {
	return missingTokens[cell]
}

// Load opens path and parses it with Parse.
func Load(path string, logger *slog.Logger) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.Wrap(fault.IO, "opening ephemeris", err)
	}
	defer f.Close()

	tbl, err := Parse(f, logger)
	if err != nil {
		return nil, err
	}
	tbl.Source = path
	return tbl, nil
}

// Parse reads a comma-delimited ephemeris table with a header row.
// Column order is free and extra columns are ignored. Only the table shape
// (header, required columns, field counts, quoting) can fail here; cell
// contents are checked by later stages.
func Parse(r io.Reader, logger *slog.Logger) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fault.Errorf(fault.Parse, "reading header", "empty table")
	}
	if err != nil {
		return nil, readErr(err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	tbl := &Table{Columns: append([]string(nil), header...)}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, readErr(err)
		}
		line, _ := cr.FieldPos(0)

		s := Sample{Line: line, Time: rec[idx.time]}
		s.TimeMissing = IsMissing(s.Time)

		s.RADeg = parseNumber(logger, rec[idx.ra], ColumnRA, line)
		s.DecDeg = parseNumber(logger, rec[idx.dec], ColumnDec, line)
		s.DistanceKm = parseNumber(logger, rec[idx.dist], ColumnDistance, line)
		tbl.Samples = append(tbl.Samples, s)
	}

	logger.Debug("ephemeris parsed",
		"component", "ephemeris",
		"rows", len(tbl.Samples),
		"columns", len(tbl.Columns),
	)
	return tbl, nil
}

type columns struct {
	time, ra, dec, dist int
}

func columnIndex(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	var c columns
	for _, want := range []struct {
		name string
		dst  *int
	}{
		{ColumnTime, &c.time},
		{ColumnRA, &c.ra},
		{ColumnDec, &c.dec},
		{ColumnDistance, &c.dist},
	} {
		i, ok := pos[want.name]
		if !ok {
			return c, fault.Errorf(fault.Parse, "reading header", "%w %q", ErrMissingColumn, want.name)
		}
		*want.dst = i
	}
	return c, nil
}

// parseNumber returns NaN for missing and non-numeric cells. Rows are only
// rejected later, by the converter, so timestamp problems surface first.
func parseNumber(logger *slog.Logger, cell, column string, line int) float64 {
	if IsMissing(cell) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		logger.Warn("non-numeric cell loaded as NaN",
			"component", "ephemeris",
			"line", line,
			"column", column,
			"value", cell,
		)
		return math.NaN()
	}
	return v
}

func readErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fault.Wrap(fault.Parse, "reading table", err)
	}
	return fault.Wrap(fault.IO, "reading table", fmt.Errorf("reading ephemeris: %w", err))
}
