package ephemeris

import "time"

// Column labels the loader requires in the header row.
const (
	ColumnTime     = "Time (iso)"
	ColumnRA       = "RA (GCRS) [deg]"
	ColumnDec      = "Dec (GCRS) [deg]"
	ColumnDistance = "Distance (GCRS) [km]"
)

// TimeLayout is the calendar format of the Time (iso) column. Cells must have
// exactly this shape, optionally followed by a '.' and 1-9 fractional digits.
const TimeLayout = "2006-01-02 15:04:05"

// Sample is one row of the ephemeris table as read from disk.
// Numeric cells that were empty, NA-like or not numbers hold NaN.
type Sample struct {
	Line        int    // 1-based line in the source file
	Time        string // raw cell text
	TimeMissing bool
	RADeg       float64 // right ascension, GCRS
	DecDeg      float64 // declination, GCRS
	DistanceKm  float64 // geocentric distance
}

// Observation is a Sample whose timestamp survived cleaning.
// Sample.Time holds the trimmed text; At is the parsed UTC instant.
type Observation struct {
	Sample
	At time.Time
}

// Table is the loaded ephemeris in source order.
type Table struct {
	Source  string
	Columns []string
	Samples []Sample
}
