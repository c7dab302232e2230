package protocol

// Delimiter separates the sender from the body on the wire.
// All peers must agree on it; there is no version negotiation.
const Delimiter = "%%"

// Message is one decoded frame.
type Message struct {
	Sender string
	Body   string
}

// RPC is a message received from the network, tagged with the remote address.
type RPC struct {
	From    string
	Payload Message
}
