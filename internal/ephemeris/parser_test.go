package ephemeris

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/star/satvis/internal/fault"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

const header = "Time (iso),RA (GCRS) [deg],Dec (GCRS) [deg],Distance (GCRS) [km]\n"

func TestParseValidTable(t *testing.T) {
	in := header +
		"2024-09-11 00:00:00.000,87.958,-39.063,7067.917\n" +
		"2024-09-11 00:01:00.000,87.126,-35.471,7067.734\n"

	tbl, err := Parse(strings.NewReader(in), testLogger)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(tbl.Samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(tbl.Samples))
	}

	s := tbl.Samples[1]
	if s.Line != 3 {
		t.Errorf("Line = %d, want 3", s.Line)
	}
	if s.Time != "2024-09-11 00:01:00.000" || s.TimeMissing {
		t.Errorf("Time = %q missing=%v", s.Time, s.TimeMissing)
	}
	if s.RADeg != 87.126 || s.DecDeg != -35.471 || s.DistanceKm != 7067.734 {
		t.Errorf("numeric fields = %v %v %v", s.RADeg, s.DecDeg, s.DistanceKm)
	}
}

func TestParseColumnOrderAndExtras(t *testing.T) {
	in := "Distance (GCRS) [km],Name,Time (iso),Dec (GCRS) [deg],RA (GCRS) [deg]\n" +
		"7000.5,SAT-1,2024-09-11 00:00:00,-10.5,120.25\n"

	tbl, err := Parse(strings.NewReader(in), testLogger)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	s := tbl.Samples[0]
	if s.Time != "2024-09-11 00:00:00" || s.RADeg != 120.25 || s.DecDeg != -10.5 || s.DistanceKm != 7000.5 {
		t.Errorf("unexpected sample %+v", s)
	}
	if len(tbl.Columns) != 5 {
		t.Errorf("Columns = %v, want 5 entries", tbl.Columns)
	}
}

func TestParseByteOrderMark(t *testing.T) {
	in := "\ufeff" + header + "2024-09-11 00:00:00,1,2,7000\n"
	if _, err := Parse(strings.NewReader(in), testLogger); err != nil {
		t.Fatalf("Parse with BOM failed: %v", err)
	}
}

func TestParseMissingCells(t *testing.T) {
	in := header +
		"2024-09-11 00:00:00.000,87.958,-39.063,7067.917\n" +
		",87.126,-35.471,7067.734\n" +
		" ,87.5,-36.0,7070.0\n" +
		"NaN,,NA,null\n"

	tbl, err := Parse(strings.NewReader(in), testLogger)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []bool{false, true, false, true}
	for i, s := range tbl.Samples {
		if s.TimeMissing != want[i] {
			t.Errorf("row %d: TimeMissing = %v, want %v", i, s.TimeMissing, want[i])
		}
	}

	last := tbl.Samples[3]
	if !math.IsNaN(last.RADeg) || !math.IsNaN(last.DecDeg) || !math.IsNaN(last.DistanceKm) {
		t.Errorf("missing numerics should be NaN, got %+v", last)
	}
}

// Non-numeric coordinates are not a table-shape problem: they load as NaN
// and are rejected by the converter after the timestamps have been checked.
func TestParseNonNumericCells(t *testing.T) {
	in := header +
		"invalid_time,abc,-39.063,7067.917\n" +
		"2024-09-11 00:01:00,87.126,north,7067.734\n" +
		"2024-09-11 00:02:00,87.126,-35.471,far\n"

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	tbl, err := Parse(strings.NewReader(in), logger)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(tbl.Samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(tbl.Samples))
	}

	if s := tbl.Samples[0]; !math.IsNaN(s.RADeg) || s.DecDeg != -39.063 || s.Time != "invalid_time" {
		t.Errorf("row 0 = %+v, want NaN RA and raw time kept", s)
	}
	if !math.IsNaN(tbl.Samples[1].DecDeg) {
		t.Errorf("row 1 Dec = %v, want NaN", tbl.Samples[1].DecDeg)
	}
	if !math.IsNaN(tbl.Samples[2].DistanceKm) {
		t.Errorf("row 2 distance = %v, want NaN", tbl.Samples[2].DistanceKm)
	}

	logs := buf.String()
	if n := strings.Count(logs, "non-numeric cell loaded as NaN"); n != 3 {
		t.Errorf("got %d warnings, want 3:\n%s", n, logs)
	}
	if !strings.Contains(logs, `"value":"abc"`) || !strings.Contains(logs, `"line":2`) {
		t.Errorf("warning should name the value and line:\n%s", logs)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "empty table"},
		{"missing column", "Time (iso),RA (GCRS) [deg],Dec (GCRS) [deg]\n", "Distance (GCRS) [km]"},
		{"misspelled column", "time,RA (GCRS) [deg],Dec (GCRS) [deg],Distance (GCRS) [km]\n", "Time (iso)"},
		{"ragged row", header + "2024-09-11 00:00:00,1,2\n", "wrong number of fields"},
		{"bad quote", header + "\"2024-09-11 00:00:00,1,2,7000\n", "extraneous or missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), testLogger)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if fault.KindOf(err) != fault.Parse {
				t.Errorf("kind = %v, want parse (err=%v)", fault.KindOf(err), err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseMissingColumnSentinel(t *testing.T) {
	_, err := Parse(strings.NewReader("Time (iso)\n"), testLogger)
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("errors.Is(err, ErrMissingColumn) = false, err=%v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "satellite_positions.csv")
	if err := os.WriteFile(path, []byte(header+"2024-09-11 00:00:00,1,2,7000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tbl, err := Load(path, testLogger)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tbl.Source != path || len(tbl.Samples) != 1 {
		t.Errorf("Load = source %q, %d samples", tbl.Source, len(tbl.Samples))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), testLogger)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if fault.KindOf(err) != fault.IO {
		t.Errorf("kind = %v, want io", fault.KindOf(err))
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("errors.Is(err, os.ErrNotExist) = false: %v", err)
	}
}
