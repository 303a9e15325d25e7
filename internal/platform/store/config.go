package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	AppName string
	Version string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot knobs; zero picks the defaults below
	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
}

const (
	defaultConnectRetries = 20
	defaultPingTimeout    = 3 * time.Second
)

func (c PGConfig) retries() int {
	if c.ConnectRetries > 0 {
		return c.ConnectRetries
	}
	return defaultConnectRetries
}

func (c PGConfig) pingTimeout() time.Duration {
	if c.PingTimeout > 0 {
		return c.PingTimeout
	}
	return defaultPingTimeout
}

// appLabel is the name connections report to the server, e.g. "taglint/1.2.0"
func (c Config) appLabel() string {
	if c.AppName == "" || c.Version == "" {
		return c.AppName
	}
	return c.AppName + "/" + c.Version
}
