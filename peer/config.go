package peer

import (
	"fmt"
	"net"
	"strings"
	"time"

	"tarun-kavipurapu/p2p-chat/pkg/protocol"
	"tarun-kavipurapu/p2p-chat/pkg/transport/tcp"
)

// Config holds everything a PeerServer needs to run.
type Config struct {
	Username   string
	ListenAddr string

	// ProbeTimeout bounds the reachability check before every send.
	ProbeTimeout time.Duration
	// PollInterval is how often listen mode drains the inbox.
	PollInterval time.Duration

	ReadBufferSize int
	ReadTimeout    time.Duration

	// MetricsInterval enables periodic metrics logging when > 0.
	MetricsInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:     "127.0.0.1:0",
		ProbeTimeout:   tcp.DefaultProbeTimeout,
		PollInterval:   1 * time.Second,
		ReadBufferSize: tcp.DefaultReadBufferSize,
		ReadTimeout:    tcp.DefaultReadTimeout,
	}
}

// Validate fills unset durations with defaults and rejects unusable values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return fmt.Errorf("username must not be empty")
	}
	if strings.Contains(c.Username, protocol.Delimiter) {
		return fmt.Errorf("username must not contain %q", protocol.Delimiter)
	}
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.ListenAddr, err)
	}

	def := DefaultConfig()
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = def.ProbeTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = def.ReadBufferSize
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = def.ReadTimeout
	}
	return nil
}
