package app

import (
	"fmt"

	"cn-data/internal/fetch"
	"cn-data/internal/saver"
)

// ProvideConfig loads config from environment (for Wire).
func ProvideConfig() (*Config, error) {
	return LoadConfig()
}

// ProvideRuntime creates the shared transport runtime (for Wire).
// Caller must call rt.Release() when shutting down.
func ProvideRuntime(cfg *Config) (*fetch.Runtime, error) {
	return fetch.NewRuntime(cfg.ProxyURL)
}

// ProvideClient creates the fetch client bound to the runtime (for Wire).
func ProvideClient(cfg *Config, rt *fetch.Runtime) *fetch.Client {
	return fetch.NewClient(rt, fetch.Options{
		Timeout:       cfg.FetchTimeout,
		UserAgent:     cfg.UserAgent,
		RatePerSecond: cfg.FetchRate,
	})
}

// ProvidePacketSaver creates PacketSaver from config (for Wire).
// Returns error if SaveFormat is not supported.
func ProvidePacketSaver(cfg *Config) (saver.PacketSaver, error) {
	ps := saver.NewPacketSaver(cfg.SaveFormat)
	if ps == nil {
		return nil, fmt.Errorf("unsupported SAVE_FORMAT %q (use: csv, parquet, json)", cfg.SaveFormat)
	}
	return ps, nil
}
