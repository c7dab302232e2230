package tcp

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"tarun-kavipurapu/p2p-chat/pkg/logger"
	"tarun-kavipurapu/p2p-chat/pkg/monitor"
	"tarun-kavipurapu/p2p-chat/pkg/protocol"
	"tarun-kavipurapu/p2p-chat/pkg/transport"

	"go.uber.org/multierr"
)

const DefaultReadTimeout = 5 * time.Second

// TCPNode implements transport.Node
type TCPNode struct {
	conn net.Conn
	lock sync.Mutex
}

func NewTCPNode(conn net.Conn) *TCPNode {
	return &TCPNode{conn: conn}
}

func (n *TCPNode) Send(frame []byte) error {
	n.lock.Lock()
	defer n.lock.Unlock()
	return writeFrame(n.conn, frame)
}

func (n *TCPNode) Close() error {
	return n.conn.Close()
}

func (n *TCPNode) Addr() string {
	return n.conn.RemoteAddr().String()
}

// Options tunes the inbound side of the transport.
type Options struct {
	ReadBufferSize int
	// ReadTimeout bounds how long one inbound connection may take to deliver its frame.
	ReadTimeout time.Duration
}

// TCPTransport implements transport.Transport.
// Every inbound connection carries exactly one frame.
type TCPTransport struct {
	listenAddr string
	opts       Options
	onMessage  func(protocol.RPC)

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}

	quitCh    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewTCPTransport(addr string, opts Options) *TCPTransport {
	if opts.ReadBufferSize <= 0 {
		opts.ReadBufferSize = DefaultReadBufferSize
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	return &TCPTransport{
		listenAddr: addr,
		opts:       opts,
		conns:      make(map[net.Conn]struct{}),
		quitCh:     make(chan struct{}),
	}
}

func (t *TCPTransport) SetOnMessage(f func(protocol.RPC)) {
	t.onMessage = f
}

func (t *TCPTransport) ListenAndAccept() error {
	ln, err := net.Listen("tcp", t.listenAddr)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.listener = ln
	t.mu.Unlock()

	logger.Sugar.Infof("[TCPTransport] listening: addr=%s", ln.Addr())

	t.wg.Add(1)
	go t.acceptLoop(ln)
	return nil
}

func (t *TCPTransport) acceptLoop(ln net.Listener) {
	defer t.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-t.quitCh:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Sugar.Errorf("[TCPTransport] accept error: listen=%s err=%v", t.listenAddr, err)
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if !t.track(conn) {
			_ = conn.Close()
			return
		}
		t.wg.Add(1)
		go t.handleConn(conn)
	}
}

func (t *TCPTransport) track(conn net.Conn) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case <-t.quitCh:
		return false
	default:
	}
	t.conns[conn] = struct{}{}
	return true
}

func (t *TCPTransport) untrack(conn net.Conn) {
	t.mu.Lock()
	delete(t.conns, conn)
	t.mu.Unlock()
}

func (t *TCPTransport) handleConn(conn net.Conn) {
	defer t.wg.Done()
	defer func() {
		t.untrack(conn)
		conn.Close()
	}()

	remote := conn.RemoteAddr().String()
	_ = conn.SetReadDeadline(time.Now().Add(t.opts.ReadTimeout))

	data, err := readFrame(conn, t.opts.ReadBufferSize)
	if err != nil {
		var netErr net.Error
		timedOut := errors.As(err, &netErr) && netErr.Timeout()
		if !timedOut || len(data) == 0 {
			logger.Sugar.Warnf("[TCPTransport] read error: remote=%s err=%v", remote, err)
			monitor.Global.RecordDiscarded()
			return
		}
		// The peer wrote but never closed; keep what arrived.
		logger.Sugar.Debugf("[TCPTransport] read timed out with %d bytes: remote=%s", len(data), remote)
	}

	msg, ok := protocol.Decode(data)
	if !ok {
		logger.Sugar.Debugf("[TCPTransport] empty frame discarded: remote=%s", remote)
		monitor.Global.RecordDiscarded()
		return
	}

	monitor.Global.RecordReceived()
	logger.Sugar.Infof("[TCPTransport] frame received: remote=%s sender=%s bytes=%d", remote, msg.Sender, len(data))

	if t.onMessage != nil {
		t.onMessage(protocol.RPC{From: remote, Payload: msg})
	}
}

func (t *TCPTransport) Dial(ctx context.Context, addr string) (transport.Node, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewTCPNode(conn), nil
}

func (t *TCPTransport) Probe(addr string, timeout time.Duration) bool {
	return Probe(addr, timeout)
}

// Close stops accepting, drops in-flight connections and waits for their handlers.
func (t *TCPTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.mu.Lock()
		close(t.quitCh)
		ln := t.listener
		conns := make([]net.Conn, 0, len(t.conns))
		for c := range t.conns {
			conns = append(conns, c)
		}
		t.mu.Unlock()

		if ln != nil {
			err = multierr.Append(err, ignoreClosed(ln.Close()))
		}
		for _, c := range conns {
			err = multierr.Append(err, ignoreClosed(c.Close()))
		}
		t.wg.Wait()
		logger.Sugar.Infof("[TCPTransport] closed: addr=%s", t.Addr())
	})
	return err
}

// Addr returns the bound address once listening, so ":0" resolves to the real port.
func (t *TCPTransport) Addr() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listener != nil {
		return t.listener.Addr().String()
	}
	return t.listenAddr
}

func ignoreClosed(err error) error {
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
