package peer

import (
	"context"
	"sync"
	"time"

	"tarun-kavipurapu/p2p-chat/pkg/protocol"
	"tarun-kavipurapu/p2p-chat/pkg/transport"
)

// fakeTransport records every network call instead of touching sockets.
type fakeTransport struct {
	mu sync.Mutex

	online  bool
	dialErr error
	sendErr error

	probes    []string
	dials     []string
	frames    [][]byte
	onMessage func(protocol.RPC)
}

type fakeNode struct {
	t    *fakeTransport
	addr string
}

func (n *fakeNode) Send(frame []byte) error {
	n.t.mu.Lock()
	defer n.t.mu.Unlock()
	if n.t.sendErr != nil {
		return n.t.sendErr
	}
	n.t.frames = append(n.t.frames, frame)
	return nil
}

func (n *fakeNode) Close() error { return nil }
func (n *fakeNode) Addr() string { return n.addr }

func (f *fakeTransport) ListenAndAccept() error { return nil }

func (f *fakeTransport) Dial(ctx context.Context, addr string) (transport.Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dials = append(f.dials, addr)
	if f.dialErr != nil {
		return nil, f.dialErr
	}
	return &fakeNode{t: f, addr: addr}, nil
}

func (f *fakeTransport) Probe(addr string, timeout time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes = append(f.probes, addr)
	return f.online
}

func (f *fakeTransport) Close() error { return nil }
func (f *fakeTransport) Addr() string { return "127.0.0.1:0" }

func (f *fakeTransport) SetOnMessage(fn func(protocol.RPC)) {
	f.onMessage = fn
}

func (f *fakeTransport) calls() (probes, dials int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.probes), len(f.dials)
}

func newFakePeer(f *fakeTransport) *PeerServer {
	cfg := DefaultConfig()
	cfg.Username = "alice"
	cfg.PollInterval = 20 * time.Millisecond
	return NewPeerServerWithTransport(cfg, f)
}
