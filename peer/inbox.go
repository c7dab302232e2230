package peer

import (
	"fmt"
	"io"
	"sync"

	"tarun-kavipurapu/p2p-chat/pkg/protocol"
)

// Inbox buffers received messages until they are drained.
// It holds exactly what arrived since the last drain, in arrival order.
type Inbox struct {
	mu       sync.Mutex
	messages []protocol.Message
}

func NewInbox() *Inbox {
	return &Inbox{}
}

// Append is safe to call from any number of listener goroutines.
func (i *Inbox) Append(msg protocol.Message) {
	i.mu.Lock()
	i.messages = append(i.messages, msg)
	i.mu.Unlock()
}

// Drain takes every buffered message and leaves the inbox empty.
func (i *Inbox) Drain() []protocol.Message {
	i.mu.Lock()
	msgs := i.messages
	i.messages = nil
	i.mu.Unlock()
	return msgs
}

// DrainAndPrint drains the inbox and writes one "<sender>: body" line per message.
// Printing happens after the lock is released.
func (i *Inbox) DrainAndPrint(w io.Writer) int {
	msgs := i.Drain()
	for _, msg := range msgs {
		fmt.Fprintf(w, "<%s>: %s\n", msg.Sender, msg.Body)
	}
	return len(msgs)
}

func (i *Inbox) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.messages)
}
