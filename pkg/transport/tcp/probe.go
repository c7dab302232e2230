package tcp

import (
	"net"
	"time"

	"tarun-kavipurapu/p2p-chat/pkg/logger"
)

const DefaultProbeTimeout = 1 * time.Second

// Probe dials addr and closes the connection straight away. The result is
// advisory: the peer may go away before a real send, or be slow to accept.
func Probe(addr string, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		logger.Sugar.Debugf("[Probe] unreachable: addr=%s timeout=%s err=%v", addr, timeout, err)
		return false
	}
	_ = conn.Close()
	return true
}
