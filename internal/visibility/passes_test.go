package visibility

import (
	"encoding/json"
	"testing"
	"time"
)

var t0 = time.Date(2024, 9, 11, 0, 0, 0, 0, time.UTC)

func minutePoints(alts ...float64) []Point {
	pts := make([]Point, len(alts))
	for i, a := range alts {
		at := t0.Add(time.Duration(i) * time.Minute)
		pts[i] = Point{
			Time:        at.Format("2006-01-02 15:04:05.000"),
			At:          at,
			AltitudeDeg: a,
			AzimuthDeg:  float64(10 * i),
		}
	}
	return pts
}

func TestPasses(t *testing.T) {
	pts := minutePoints(-5, 12, 40, 30, 5, 8, 20, 86, 15)

	passes := Passes(pts, DefaultWindow(), 0)
	if len(passes) != 3 {
		t.Fatalf("got %d passes, want 3: %+v", len(passes), passes)
	}

	p := passes[0]
	if p.Samples != 3 {
		t.Errorf("pass 0: samples = %d, want 3", p.Samples)
	}
	if !p.Start.Equal(t0.Add(time.Minute)) || !p.End.Equal(t0.Add(3*time.Minute)) {
		t.Errorf("pass 0: start=%v end=%v", p.Start, p.End)
	}
	if p.MaxAltitudeDeg != 40 || !p.MaxAltitudeAt.Equal(t0.Add(2*time.Minute)) || p.AzimuthAtMax != 20 {
		t.Errorf("pass 0: max=%v at %v az=%v", p.MaxAltitudeDeg, p.MaxAltitudeAt, p.AzimuthAtMax)
	}
	if p.StartAzimuth != 10 || p.EndAzimuth != 30 {
		t.Errorf("pass 0: start az=%v end az=%v", p.StartAzimuth, p.EndAzimuth)
	}
	if p.Duration() != 2*time.Minute {
		t.Errorf("pass 0: duration = %v", p.Duration())
	}
	if p.StartTime != "2024-09-11 00:01:00.000" || p.EndTime != "2024-09-11 00:03:00.000" {
		t.Errorf("pass 0: start=%q end=%q", p.StartTime, p.EndTime)
	}

	// 86 degrees is above the band, so it splits the second run.
	if passes[1].Samples != 1 || passes[2].Samples != 1 {
		t.Errorf("passes 1,2 samples = %d,%d, want 1,1", passes[1].Samples, passes[2].Samples)
	}
}

func TestPassesTimeGap(t *testing.T) {
	pts := minutePoints(20, 25, 30)
	pts[2].At = pts[1].At.Add(time.Hour)

	if got := len(Passes(pts, DefaultWindow(), 5*time.Minute)); got != 2 {
		t.Errorf("with gap limit: %d passes, want 2", got)
	}
	if got := len(Passes(pts, DefaultWindow(), 0)); got != 1 {
		t.Errorf("without gap limit: %d passes, want 1", got)
	}
}

func TestPassesNoneVisible(t *testing.T) {
	if got := Passes(minutePoints(-20, 0, 9.9, 88), DefaultWindow(), 0); len(got) != 0 {
		t.Errorf("got %d passes, want 0", len(got))
	}
	if got := Passes(nil, DefaultWindow(), 0); len(got) != 0 {
		t.Errorf("Passes(nil) = %v", got)
	}
}

func TestPointsLengthMismatch(t *testing.T) {
	_, err := Points([]string{"a"}, []time.Time{t0}, []float64{1}, nil)
	if err == nil {
		t.Fatal("expected error for mismatched lengths")
	}

	pts, err := Points([]string{"a"}, []time.Time{t0}, []float64{15}, []float64{200})
	if err != nil {
		t.Fatal(err)
	}
	if pts[0].Time != "a" || pts[0].AltitudeDeg != 15 || pts[0].AzimuthDeg != 200 || !pts[0].At.Equal(t0) {
		t.Errorf("Points = %+v", pts[0])
	}
}

func TestPassDuration(t *testing.T) {
	passes := Passes(minutePoints(12, 40, 30, 5, 20), DefaultWindow(), 0)
	if len(passes) != 2 {
		t.Fatalf("got %d passes, want 2", len(passes))
	}
	if d := passes[0].Duration(); d != 2*time.Minute {
		t.Errorf("pass 0 duration = %v, want 2m", d)
	}
	if d := passes[1].Duration(); d != 0 {
		t.Errorf("single-sample pass duration = %v, want 0", d)
	}
}

func TestPassJSONKeys(t *testing.T) {
	passes := Passes(minutePoints(-5, 12, 40), DefaultWindow(), 0)
	if len(passes) != 1 {
		t.Fatalf("got %d passes, want 1", len(passes))
	}

	data, err := json.Marshal(passes[0])
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}

	want := map[string]any{
		"start":           t0.Add(time.Minute).Format(time.RFC3339),
		"end":             t0.Add(2 * time.Minute).Format(time.RFC3339),
		"start_text":      "2024-09-11 00:01:00.000",
		"end_text":        "2024-09-11 00:02:00.000",
		"max_altitude_at": t0.Add(2 * time.Minute).Format(time.RFC3339),
	}
	for key, v := range want {
		if got[key] != v {
			t.Errorf("%s = %v, want %v", key, got[key], v)
		}
	}
}
