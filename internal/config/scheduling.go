package config

import (
	"os"
	"strconv"
	"time"
)

const (
	dispatchPollIntervalMsEnv = "DISPATCH_POLL_INTERVAL_MS"
	dispatchDisabledEnv       = "DISPATCH_DISABLED"

	defaultDispatchPollIntervalMs = 1000
)

type SchedulingConfig struct {
	DispatchPollInterval time.Duration
	DispatchDisabled     bool
}

func LoadSchedulingConfig() *SchedulingConfig {
	pollIntervalMs := defaultDispatchPollIntervalMs
	if v := os.Getenv(dispatchPollIntervalMsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			pollIntervalMs = parsed
		}
	}

	return &SchedulingConfig{
		DispatchPollInterval: time.Duration(pollIntervalMs) * time.Millisecond,
		DispatchDisabled:     os.Getenv(dispatchDisabledEnv) == "true",
	}
}
