package ephemeris

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/star/satvis/internal/fault"
)

func TestNormalizeTimesDropsMissingAndBlank(t *testing.T) {
	samples := []Sample{
		{Line: 2, Time: "2024-09-11 00:00:00.000", RADeg: 87.958},
		{Line: 3, TimeMissing: true, RADeg: 87.126},
		{Line: 4, Time: " ", RADeg: 87.5},
	}

	obs, err := NormalizeTimes(samples)
	if err != nil {
		t.Fatalf("NormalizeTimes failed: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("got %d observations, want 1", len(obs))
	}
	if obs[0].Time != "2024-09-11 00:00:00.000" {
		t.Errorf("Time = %q", obs[0].Time)
	}
	want := time.Date(2024, 9, 11, 0, 0, 0, 0, time.UTC)
	if !obs[0].At.Equal(want) {
		t.Errorf("At = %v, want %v", obs[0].At, want)
	}
	if obs[0].RADeg != 87.958 {
		t.Errorf("row payload not carried: RADeg = %v", obs[0].RADeg)
	}
}

func TestNormalizeTimesPreservesOrderAndTrims(t *testing.T) {
	samples := []Sample{
		{Line: 2, Time: "  2024-09-11 00:02:00"},
		{Line: 3, Time: "\t"},
		{Line: 4, Time: "2024-09-11 00:00:00.500 "},
		{Line: 5, TimeMissing: true},
		{Line: 6, Time: "2024-09-11 00:01:00.123"},
	}

	obs, err := NormalizeTimes(samples)
	if err != nil {
		t.Fatalf("NormalizeTimes failed: %v", err)
	}

	got := CleanTimes(obs)
	want := []string{"2024-09-11 00:02:00", "2024-09-11 00:00:00.500", "2024-09-11 00:01:00.123"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("CleanTimes = %q, want %q", got, want)
	}
	for _, o := range obs {
		if o.Time == "" || strings.TrimSpace(o.Time) != o.Time {
			t.Errorf("timestamp %q not cleaned", o.Time)
		}
	}
	if obs[1].At.Nanosecond() != 500_000_000 {
		t.Errorf("fractional seconds lost: %v", obs[1].At)
	}
	if obs[2].Line != 6 {
		t.Errorf("Line = %d, want 6", obs[2].Line)
	}
}

func TestNormalizeTimesAllMissing(t *testing.T) {
	samples := []Sample{
		{Line: 2, TimeMissing: true},
		{Line: 3, Time: "   "},
		{Line: 4, Time: ""},
	}

	_, err := NormalizeTimes(samples)
	if !errors.Is(err, ErrNoValidTimes) {
		t.Fatalf("err = %v, want ErrNoValidTimes", err)
	}
	if fault.KindOf(err) != fault.InvalidInput {
		t.Errorf("kind = %v, want invalid_input", fault.KindOf(err))
	}

	if _, err := NormalizeTimes(nil); !errors.Is(err, ErrNoValidTimes) {
		t.Errorf("empty input: err = %v, want ErrNoValidTimes", err)
	}
}

func TestNormalizeTimesRejectsUnparsable(t *testing.T) {
	tests := []string{
		"invalid_time",
		"2024-09-11T00:00:00",
		"2024/09/11 00:00:00",
		"2024-13-01 00:00:00",
		"2024-09-11",
		"2024-09-11 0:00:00",
		"2024-09-11 00:00:00,5",
		"2024-9-11 00:00:00",
		"2024-09-11 00:00:00.",
		"2024-09-11  00:00:00",
	}

	for _, ts := range tests {
		t.Run(ts, func(t *testing.T) {
			samples := []Sample{
				{Line: 2, Time: "2024-09-11 00:00:00"},
				{Line: 3, Time: ts},
			}
			obs, err := NormalizeTimes(samples)
			if err == nil {
				t.Fatalf("expected error, got %d observations", len(obs))
			}
			if obs != nil {
				t.Errorf("partial result returned: %v", obs)
			}
			if fault.KindOf(err) != fault.InvalidInput {
				t.Errorf("kind = %v, want invalid_input", fault.KindOf(err))
			}
			if !strings.Contains(err.Error(), "line 3") {
				t.Errorf("error %q does not name the line", err)
			}
		})
	}
}
