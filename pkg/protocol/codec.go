package protocol

import (
	"strings"
)

// Encode builds a frame: sender, Delimiter, body. No length prefix, no escaping.
func Encode(sender, body string) []byte {
	return []byte(sender + Delimiter + body)
}

// Decode parses a frame. Blank frames are keep-alives and return ok == false.
//
// Field 0 is the sender and field 1 the body; a missing delimiter yields an
// empty body. A body that itself contains the delimiter is cut at that point.
func Decode(data []byte) (msg Message, ok bool) {
	text := strings.ToValidUTF8(string(data), "�")
	if strings.TrimSpace(text) == "" {
		return Message{}, false
	}

	fields := strings.Split(text, Delimiter)
	msg.Sender = fields[0]
	if len(fields) > 1 {
		msg.Body = fields[1]
	}
	return msg, true
}
