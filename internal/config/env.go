package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/star/satvis/internal/transform"
)

// ApplyEnv overlays SATVIS_* environment variables onto cfg. Invalid values
// are logged and ignored, leaving the previous value in place.
func ApplyEnv(cfg *Config, logger *slog.Logger) {
	envString("SATVIS_INPUT", &cfg.Input)
	envString("SATVIS_OUTPUT", &cfg.Output)
	envString("SATVIS_DETAIL_FILE", &cfg.DetailFile)
	envString("SATVIS_METRICS_FILE", &cfg.MetricsFile)

	envFloat(logger, "SATVIS_STATION_LAT", &cfg.Station.LatitudeDeg)
	envFloat(logger, "SATVIS_STATION_LON", &cfg.Station.LongitudeDeg)
	envFloat(logger, "SATVIS_STATION_ELEVATION_M", &cfg.Station.ElevationM)
	envFloat(logger, "SATVIS_MIN_ALTITUDE", &cfg.MinAltitudeDeg)
	envFloat(logger, "SATVIS_MAX_ALTITUDE", &cfg.MaxAltitudeDeg)

	if v := os.Getenv("SATVIS_WRITE_HEADER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid SATVIS_WRITE_HEADER value, keeping current", "value", v, "current", cfg.WriteHeader)
		} else {
			cfg.WriteHeader = b
		}
	}

	if v := os.Getenv("SATVIS_PASS_GAP_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			logger.Warn("invalid SATVIS_PASS_GAP_SECONDS value, keeping current", "value", v, "current", cfg.PassGapSeconds)
		} else {
			cfg.PassGapSeconds = n
		}
	}

	if v := os.Getenv("SATVIS_FRAME_MODEL"); v != "" {
		if m, err := transform.ParseModel(v); err != nil {
			logger.Warn("invalid SATVIS_FRAME_MODEL value, keeping current", "value", v, "current", cfg.FrameModel)
		} else {
			cfg.FrameModel = string(m)
		}
	}

	if v := os.Getenv("SATVIS_LOG_LEVEL"); v != "" {
		if _, err := ParseLevel(v); err != nil {
			logger.Warn("invalid SATVIS_LOG_LEVEL value, keeping current", "value", v, "current", cfg.LogLevel)
		} else {
			cfg.LogLevel = v
		}
	}
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envFloat(logger *slog.Logger, key string, dst *float64) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.Warn("invalid "+key+" value, keeping current", "value", v, "current", *dst)
		return
	}
	*dst = f
}
