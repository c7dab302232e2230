package transport

import (
	"context"
	"time"

	"tarun-kavipurapu/p2p-chat/pkg/protocol"
)

// Node represents a remote peer that we can send a frame to
type Node interface {
	Send(frame []byte) error
	Close() error
	Addr() string
}

// Transport handles the network layer
type Transport interface {
	ListenAndAccept() error
	Dial(ctx context.Context, addr string) (Node, error)
	// Probe reports whether addr accepts a connection within timeout.
	Probe(addr string, timeout time.Duration) bool
	Close() error
	Addr() string
	// SetOnMessage must be called before ListenAndAccept.
	SetOnMessage(func(protocol.RPC))
}
