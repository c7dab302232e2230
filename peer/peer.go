package peer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"tarun-kavipurapu/p2p-chat/pkg/logger"
	"tarun-kavipurapu/p2p-chat/pkg/monitor"
	"tarun-kavipurapu/p2p-chat/pkg/protocol"
	"tarun-kavipurapu/p2p-chat/pkg/transport"
	"tarun-kavipurapu/p2p-chat/pkg/transport/tcp"
)

// PeerServer is one chat participant: a listener feeding the inbox plus a sender.
type PeerServer struct {
	cfg       Config
	Transport transport.Transport
	inbox     *Inbox
	contacts  *Directory
	sender    *Sender

	stopMetrics context.CancelFunc
}

// NewPeerServer builds a peer on a TCP transport. cfg should already be validated.
func NewPeerServer(cfg Config) *PeerServer {
	trans := tcp.NewTCPTransport(cfg.ListenAddr, tcp.Options{
		ReadBufferSize: cfg.ReadBufferSize,
		ReadTimeout:    cfg.ReadTimeout,
	})
	return NewPeerServerWithTransport(cfg, trans)
}

func NewPeerServerWithTransport(cfg Config, trans transport.Transport) *PeerServer {
	peerServer := &PeerServer{
		cfg:       cfg,
		Transport: trans,
		inbox:     NewInbox(),
		contacts:  NewDirectory(),
		sender:    NewSender(trans, cfg.ProbeTimeout),
	}
	trans.SetOnMessage(peerServer.OnMessage)

	logger.Sugar.Infof("[PeerServer] Initialized: user=%s addr=%s", cfg.Username, cfg.ListenAddr)
	return peerServer
}

// OnMessage is the listener hook; it runs on per-connection goroutines.
func (p *PeerServer) OnMessage(rpc protocol.RPC) {
	p.inbox.Append(rpc.Payload)
	logger.Sugar.Debugf("[PeerServer] queued message: from=%s sender=%s", rpc.From, rpc.Payload.Sender)
}

// Start binds the listener. A bind failure is returned and the peer cannot serve.
func (p *PeerServer) Start() error {
	logger.Sugar.Infof("[PeerServer] Starting peer server on address: %s", p.cfg.ListenAddr)

	if err := p.Transport.ListenAndAccept(); err != nil {
		return fmt.Errorf("failed to start listening: %w", err)
	}

	if p.cfg.MetricsInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		p.stopMetrics = cancel
		go monitor.LogPeriodic(ctx, p.cfg.MetricsInterval)
	}
	return nil
}

// Resolve maps a recipient (address literal or contact name) to an address.
func (p *PeerServer) Resolve(recipient string) (string, error) {
	addr, ok := p.contacts.Resolve(recipient)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRecipient, recipient)
	}
	return addr, nil
}

// SendTo resolves recipient and delivers body as this peer's user.
// It returns the address that was used, when resolution succeeded.
func (p *PeerServer) SendTo(ctx context.Context, recipient, body string) (string, error) {
	addr, err := p.Resolve(recipient)
	if err != nil {
		return "", err
	}
	return addr, p.sender.Send(ctx, p.cfg.Username, addr, body)
}

// Probe resolves recipient and checks whether it accepts connections.
func (p *PeerServer) Probe(recipient string) (string, bool, error) {
	addr, err := p.Resolve(recipient)
	if err != nil {
		return "", false, err
	}
	return addr, p.Transport.Probe(addr, p.cfg.ProbeTimeout), nil
}

// Listen prints the inbox to w right away and then every PollInterval until wait
// returns. The poller has exited by the time Listen returns, so a message that
// arrives during the last interval stays in the inbox for the next drain.
func (p *PeerServer) Listen(w io.Writer, wait func() error) error {
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(p.cfg.PollInterval)
		defer ticker.Stop()
		for {
			p.inbox.DrainAndPrint(w)
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
		}
	}()

	err := wait()
	close(stop)
	<-done
	return err
}

func (p *PeerServer) Inbox() *Inbox {
	return p.inbox
}

func (p *PeerServer) Contacts() *Directory {
	return p.contacts
}

func (p *PeerServer) Username() string {
	return p.cfg.Username
}

func (p *PeerServer) Addr() string {
	return p.Transport.Addr()
}

func (p *PeerServer) GetStatus() string {
	s := monitor.Global.Snapshot()

	var b strings.Builder
	fmt.Fprintf(&b, "User: %s\n", p.cfg.Username)
	fmt.Fprintf(&b, "Listening on: %s\n", p.Addr())
	fmt.Fprintf(&b, "Contacts: %d\n", p.contacts.Len())
	fmt.Fprintf(&b, "Unread messages: %d\n", p.inbox.Len())
	fmt.Fprintf(&b, "Received: %d | Discarded: %d | Sent: %d | Failed sends: %d\n",
		s.Received, s.Discarded, s.Sent, s.SendFailures)
	fmt.Fprintf(&b, "Uptime: %s", s.Uptime.Truncate(time.Second))
	return b.String()
}

func (p *PeerServer) Stop() error {
	if p.stopMetrics != nil {
		p.stopMetrics()
	}
	logger.Sugar.Infof("[PeerServer] Stopping peer server: %s", p.Addr())
	return p.Transport.Close()
}
