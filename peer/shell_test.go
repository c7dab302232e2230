package peer

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"tarun-kavipurapu/p2p-chat/pkg/protocol"
)

// syncBuffer is a bytes.Buffer safe for the listen poller and the test to share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForOutput(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), want) {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %q, output so far: %q", want, out.String())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func newTestShell(f *fakeTransport, input string) (*Shell, *syncBuffer) {
	out := &syncBuffer{}
	return NewShell(newFakePeer(f), out, LineReader(strings.NewReader(input))), out
}

func TestParseCommand(t *testing.T) {
	cmd := parseCommand(`send bob "hello there"`)
	if cmd.verb != "send" || len(cmd.args) != 1 || cmd.args[0] != "bob" {
		t.Fatalf("unexpected parse: %+v", cmd)
	}
	if !cmd.hasBody || cmd.body != "hello there" {
		t.Fatalf("unexpected body: %+v", cmd)
	}

	cmd = parseCommand("   add  carol   127.0.0.1:9003 ")
	if cmd.verb != "add" || len(cmd.args) != 2 || cmd.hasBody {
		t.Fatalf("unexpected parse: %+v", cmd)
	}

	if cmd := parseCommand(""); cmd.verb != "" {
		t.Fatalf("expected empty verb, got %+v", cmd)
	}
}

func TestShellSendUnknownRecipient(t *testing.T) {
	f := &fakeTransport{online: true}
	sh, out := newTestShell(f, "")

	if sh.Execute(`send nobody "hi"`) {
		t.Fatal("send should not quit")
	}
	if !strings.Contains(out.String(), "Invalid IP or contact name") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if probes, dials := f.calls(); probes != 0 || dials != 0 {
		t.Fatalf("expected no network I/O, got probes=%d dials=%d", probes, dials)
	}
}

func TestShellSendOutcomes(t *testing.T) {
	cases := []struct {
		name string
		f    *fakeTransport
		want string
	}{
		{"offline", &fakeTransport{online: false}, "Recipient is offline!"},
		{"connect", &fakeTransport{online: true, dialErr: io.ErrUnexpectedEOF}, "Failed to connect to server at 127.0.0.1:9001"},
		{"write", &fakeTransport{online: true, sendErr: io.ErrClosedPipe}, "Error sending message:"},
		{"ok", &fakeTransport{online: true}, "Message sent to 127.0.0.1:9001"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sh, out := newTestShell(c.f, "")
			sh.Execute(`send 127.0.0.1:9001 "hello"`)
			if !strings.Contains(out.String(), c.want) {
				t.Fatalf("got %q, want it to contain %q", out.String(), c.want)
			}
		})
	}
}

func TestShellSendMissingArgs(t *testing.T) {
	f := &fakeTransport{online: true}
	sh, out := newTestShell(f, "")

	sh.Execute("send")
	sh.Execute("send bob")
	got := out.String()
	if !strings.Contains(got, "Recipient not specified") || !strings.Contains(got, "Message not specified") {
		t.Fatalf("unexpected output %q", got)
	}
	if probes, dials := f.calls(); probes != 0 || dials != 0 {
		t.Fatal("incomplete send commands must not touch the network")
	}
}

func TestShellAddAndPrintContacts(t *testing.T) {
	f := &fakeTransport{online: true}
	sh, out := newTestShell(f, "")

	sh.Execute("print contacts")
	if !strings.Contains(out.String(), "No contacts saved.") {
		t.Fatalf("unexpected output %q", out.String())
	}

	sh.Execute("add bob 127.0.0.1:9002")
	sh.Execute("add carol")
	sh.Execute("print contacts")
	sh.Execute("print nonsense")

	got := out.String()
	for _, want := range []string{"Address not specified", "0. bob - 127.0.0.1:9002", "Invalid print command"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q missing %q", got, want)
		}
	}

	sh.Execute(`send bob "hi"`)
	if len(f.dials) != 1 || f.dials[0] != "127.0.0.1:9002" {
		t.Fatalf("expected dial to bob's address, got %v", f.dials)
	}
}

func TestShellInvalidAndQuit(t *testing.T) {
	f := &fakeTransport{}
	sh, out := newTestShell(f, "")

	if sh.Execute("dance") {
		t.Fatal("invalid input should not quit")
	}
	if !strings.Contains(out.String(), "Input invalid") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if sh.Execute("") {
		t.Fatal("blank line should not quit")
	}
	if !sh.Execute("quit") || !sh.Execute("exit") {
		t.Fatal("quit and exit should end the loop")
	}
}

func TestShellHelpAndStatus(t *testing.T) {
	sh, out := newTestShell(&fakeTransport{}, "")
	sh.Execute("help")
	sh.Execute("status")

	got := out.String()
	for _, want := range []string{"print contacts", "send [address or name]", "User: alice", "Unread messages: 0"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q missing %q", got, want)
		}
	}
}

func TestShellProbe(t *testing.T) {
	sh, out := newTestShell(&fakeTransport{online: true}, "")
	sh.Execute("probe 127.0.0.1:9001")
	sh.Execute("probe ghost")
	got := out.String()
	if !strings.Contains(got, "127.0.0.1:9001 is online") || !strings.Contains(got, "Invalid IP or contact name") {
		t.Fatalf("unexpected output %q", got)
	}

	sh, out = newTestShell(&fakeTransport{online: false}, "")
	sh.Execute("probe 127.0.0.1:9001")
	if !strings.Contains(out.String(), "Recipient is offline!") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestShellListenPrintsAndReturns(t *testing.T) {
	f := &fakeTransport{}
	pr, pw := io.Pipe()
	out := &syncBuffer{}
	p := newFakePeer(f)
	sh := NewShell(p, out, LineReader(pr))

	p.Inbox().Append(protocol.Message{Sender: "bob", Body: "hello"})

	done := make(chan bool, 1)
	go func() { done <- sh.Execute("listen") }()

	waitForOutput(t, out, "<bob>: hello")
	pw.Write([]byte("\n"))

	select {
	case quit := <-done:
		if quit {
			t.Fatal("listen should not quit the shell")
		}
	case <-time.After(time.Second):
		t.Fatal("listen did not return after a line of input")
	}
	pw.Close()
}

func TestShellRunUntilQuit(t *testing.T) {
	sh, out := newTestShell(&fakeTransport{}, "help\nadd bob 127.0.0.1:9002\nquit\nadd never 1.1.1.1:1\n")
	if err := sh.Run("> "); err != nil {
		t.Fatalf("run: %v", err)
	}
	if sh.peer.Contacts().Len() != 1 {
		t.Fatalf("commands after quit should not run, contacts=%d", sh.peer.Contacts().Len())
	}
	if !strings.HasPrefix(out.String(), "> ") {
		t.Fatalf("expected prompt prefix, got %q", out.String())
	}
}

func TestShellRunStopsAtEOF(t *testing.T) {
	sh, _ := newTestShell(&fakeTransport{}, "add bob 127.0.0.1:9002")
	if err := sh.Run(""); err != nil {
		t.Fatalf("run: %v", err)
	}
	if sh.peer.Contacts().Len() != 1 {
		t.Fatal("final line without newline should still run")
	}
}
