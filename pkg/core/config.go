package core

// MonitorConfig contains configuration for the interface monitor loop.
type MonitorConfig struct {
	// Interval is how often the registry is refreshed (Go duration string,
	// e.g. "30s").
	Interval string `json:"interval" yaml:"interval"`

	// RemoveStale controls whether interfaces that disappear from the
	// platform table are evicted from the registry on refresh. When false,
	// disappeared interfaces remain listed with their last-known counters.
	RemoveStale bool `json:"remove_stale" yaml:"removeStale"`

	// ReportFormat selects the per-tick report output ("text" or "json").
	ReportFormat string `json:"report_format" yaml:"reportFormat"`

	// Debug enables debug logging.
	Debug bool `json:"debug" yaml:"debug"`
}
