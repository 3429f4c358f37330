package ephemeris

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/star/satvis/internal/fault"
)

// ErrNoValidTimes is returned when cleaning leaves no timestamps.
var ErrNoValidTimes = errors.New("no valid time data available")

// timeShape is the exact text form accepted for timestamps. time.Parse alone
// would also take a one-digit hour or a comma before the fraction.
var timeShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d{1,9})?$`)

// NormalizeTimes drops samples whose timestamp is missing or blank, trims the
// survivors and parses them with TimeLayout as UTC. Order is preserved.
// A single unparsable timestamp fails the whole call.
func NormalizeTimes(samples []Sample) ([]Observation, error) {
	out := make([]Observation, 0, len(samples))
	for _, s := range samples {
		if s.TimeMissing {
			continue
		}
		s.Time = strings.TrimSpace(s.Time)
		if s.Time == "" {
			continue
		}
		out = append(out, Observation{Sample: s})
	}
	if len(out) == 0 {
		return nil, fault.Wrap(fault.InvalidInput, "cleaning time column", ErrNoValidTimes)
	}

	for i := range out {
		if !timeShape.MatchString(out[i].Time) {
			return nil, fault.Errorf(fault.InvalidInput, "parsing time column",
				"line %d: invalid timestamp %q: want YYYY-MM-DD HH:MM:SS[.fff]", out[i].Line, out[i].Time)
		}
		at, err := time.ParseInLocation(TimeLayout, out[i].Time, time.UTC)
		if err != nil {
			return nil, fault.Errorf(fault.InvalidInput, "parsing time column",
				"line %d: invalid timestamp %q: %w", out[i].Line, out[i].Time, err)
		}
		out[i].At = at
	}
	return out, nil
}

// CleanTimes returns the cleaned timestamp text of each observation.
func CleanTimes(obs []Observation) []string {
	times := make([]string, len(obs))
	for i, o := range obs {
		times[i] = o.Time
	}
	return times
}
