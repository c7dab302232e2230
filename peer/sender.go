package peer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tarun-kavipurapu/p2p-chat/pkg/logger"
	"tarun-kavipurapu/p2p-chat/pkg/monitor"
	"tarun-kavipurapu/p2p-chat/pkg/protocol"
	"tarun-kavipurapu/p2p-chat/pkg/transport"
)

var (
	// ErrRecipientOffline means the probe failed and no connection was attempted.
	ErrRecipientOffline = errors.New("recipient is offline")
	// ErrConnectFailed means the probe passed but the real dial did not.
	ErrConnectFailed = errors.New("failed to connect")
	ErrWriteFailed   = errors.New("failed to write message")
	// ErrUnknownRecipient means the recipient is neither an address nor a known contact.
	ErrUnknownRecipient = errors.New("invalid IP or contact name")
)

// Sender delivers one frame per connection. Nothing is retried or acknowledged.
type Sender struct {
	transport    transport.Transport
	probeTimeout time.Duration
}

func NewSender(tr transport.Transport, probeTimeout time.Duration) *Sender {
	return &Sender{
		transport:    tr,
		probeTimeout: probeTimeout,
	}
}

func (s *Sender) Send(ctx context.Context, from, addr, body string) error {
	if !s.transport.Probe(addr, s.probeTimeout) {
		monitor.Global.RecordSendFailure()
		logger.Sugar.Warnf("[Sender] recipient offline: to=%s", addr)
		return fmt.Errorf("%w: %s", ErrRecipientOffline, addr)
	}

	frame := protocol.Encode(from, body)

	node, err := s.transport.Dial(ctx, addr)
	if err != nil {
		monitor.Global.RecordSendFailure()
		logger.Sugar.Errorf("[Sender] dial failed after successful probe: to=%s err=%v", addr, err)
		return fmt.Errorf("%w to %s: %w", ErrConnectFailed, addr, err)
	}
	defer node.Close()

	if err := node.Send(frame); err != nil {
		monitor.Global.RecordSendFailure()
		logger.Sugar.Errorf("[Sender] write failed: to=%s err=%v", addr, err)
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	monitor.Global.RecordSent(len(frame))
	logger.Sugar.Infof("[Sender] message sent: to=%s bytes=%d", addr, len(frame))
	return nil
}
